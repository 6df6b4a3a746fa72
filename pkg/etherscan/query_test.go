package etherscan

import (
	"testing"
	"time"
)

func TestQuery_Encode(t *testing.T) {
	q := NewQuery("account", "balance").
		Add("address", "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae").
		Add("tag", "latest")

	want := "module=account&action=balance&address=0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae&tag=latest"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestQuery_AddSet(t *testing.T) {
	q := NewQuery("logs", "getLogs").Add("topic0", "a").Add("topic0", "b").Add("page", "1")
	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}
	if got := q.Values()["topic0"]; len(got) != 2 {
		t.Errorf("Values()[topic0] = %v, want two values", got)
	}

	q.Set("topic0", "c")
	if got, want := q.Encode(), "module=logs&action=getLogs&topic0=c&page=1"; got != want {
		t.Errorf("Encode() after Set = %s, want %s", got, want)
	}

	q.Set("offset", "10")
	if got := q.Get("offset"); got != "10" {
		t.Errorf("Get(offset) = %q, want 10", got)
	}
}

func TestQuery_AddIfSet(t *testing.T) {
	q := NewQuery("account", "tokentx").AddIfSet("address", "").AddIfSet("contractaddress", "0x1")
	if q.Has("address") {
		t.Error("Has(address) = true, want false")
	}
	if !q.Has("contractaddress") {
		t.Error("Has(contractaddress) = false, want true")
	}
}

func TestQuery_CloneAndRedact(t *testing.T) {
	q := NewQuery("stats", "ethprice")
	c := q.clone()
	c.Set("apikey", "secret")

	if q.Has("apikey") {
		t.Error("clone shares parameters with the original")
	}
	if got, want := c.redacted(), "module=stats&action=ethprice&apikey=%2A%2A%2A"; got != want {
		t.Errorf("redacted() = %s, want %s", got, want)
	}
	if c.Get("apikey") != "secret" {
		t.Error("redacted() modified the query")
	}
}

func TestParams_Apply(t *testing.T) {
	q := NewQuery("account", "txlist")
	BlockRange{StartBlock: 0}.apply(q)
	Page{Page: 1, Offset: 10, Sort: SortDesc}.apply(q)
	if got, want := q.Encode(), "module=account&action=txlist&startblock=0&page=1&offset=10&sort=desc"; got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}

	q = NewQuery("stats", "dailytx")
	DateRange{
		Start: time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2019, 2, 28, 23, 0, 0, 0, time.UTC),
		Sort:  SortAsc,
	}.apply(q)
	if got, want := q.Encode(), "module=stats&action=dailytx&startdate=2019-02-01&enddate=2019-02-28&sort=asc"; got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestBlockTag(t *testing.T) {
	if got := BlockTag(436); got != "0x1b4" {
		t.Errorf("BlockTag(436) = %s, want 0x1b4", got)
	}
}
