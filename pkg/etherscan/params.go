package etherscan

import (
	"time"

	"github.com/archon-research/etherscan/internal/pkg/hexutil"
)

// Tag selects the block context of state queries.
type Tag string

const (
	TagLatest   Tag = "latest"
	TagPending  Tag = "pending"
	TagEarliest Tag = "earliest"
)

// BlockTag addresses a specific block in proxy calls, hex encoded.
func BlockTag(number int64) Tag {
	return Tag(hexutil.EncodeInt64(number))
}

// Sort orders list results by block number.
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// BlockRange limits list endpoints to [StartBlock, EndBlock]. A zero EndBlock
// leaves the upper bound to the service (latest block).
type BlockRange struct {
	StartBlock int64
	EndBlock   int64
}

func (r BlockRange) apply(q *Query) {
	q.AddInt("startblock", r.StartBlock)
	if r.EndBlock > 0 {
		q.AddInt("endblock", r.EndBlock)
	}
}

// Page selects a page of a list endpoint. Zero values are omitted and take the
// service defaults.
type Page struct {
	Page   int
	Offset int
	Sort   Sort
}

func (p Page) apply(q *Query) {
	if p.Page > 0 {
		q.AddInt("page", int64(p.Page))
	}
	if p.Offset > 0 {
		q.AddInt("offset", int64(p.Offset))
	}
	if p.Sort != "" {
		q.Add("sort", string(p.Sort))
	}
}

// DateRange bounds the daily statistics endpoints. Dates are sent as UTC yyyy-mm-dd.
type DateRange struct {
	Start time.Time
	End   time.Time
	Sort  Sort
}

const dateLayout = "2006-01-02"

func (r DateRange) apply(q *Query) {
	q.Add("startdate", r.Start.UTC().Format(dateLayout))
	q.Add("enddate", r.End.UTC().Format(dateLayout))
	if r.Sort != "" {
		q.Add("sort", string(r.Sort))
	}
}
