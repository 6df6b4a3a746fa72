package etherscan

import "context"

const moduleTransaction = "transaction"

// ExecutionStatus reports whether a contract execution failed.
type ExecutionStatus struct {
	IsError        int    `etherscan:"isError,default=-1"`
	ErrDescription string `etherscan:"errDescription"`
}

func (s ExecutionStatus) IsValid() bool {
	return s.IsError >= 0
}

// Failed reports whether the execution reverted.
func (s ExecutionStatus) Failed() bool {
	return s.IsError == 1
}

// ReceiptStatus is the post-Byzantium receipt status. Status is 1 for success,
// 0 for failure and empty before Byzantium.
type ReceiptStatus struct {
	Status string `etherscan:"status"`
}

func (s ReceiptStatus) IsValid() bool {
	return s.Status != ""
}

// Succeeded reports whether the receipt status is 1.
func (s ReceiptStatus) Succeeded() bool {
	return s.Status == "1"
}

// ExecutionStatus returns the contract execution status of a transaction.
func (c *Client) ExecutionStatus(ctx context.Context, txHash string) (ExecutionStatus, error) {
	q := NewQuery(moduleTransaction, "getstatus").Add("txhash", txHash)
	return fetchResult[ExecutionStatus](ctx, c, q)
}

// ReceiptStatus returns the receipt status of a transaction.
func (c *Client) ReceiptStatus(ctx context.Context, txHash string) (ReceiptStatus, error) {
	q := NewQuery(moduleTransaction, "gettxreceiptstatus").Add("txhash", txHash)
	return fetchResult[ReceiptStatus](ctx, c, q)
}
