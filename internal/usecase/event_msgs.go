package usecase

// Published on the purchase events exchange when a transaction reaches
// a terminal state.
type PurchaseResolvedMsg struct {
	TxnID       string `json:"txnId"`
	Email       string `json:"email"`
	OrderNumber string `json:"orderNumber"`
	Amount      string `json:"amount"`
	Outcome     string `json:"outcome"` // "success" | "failed"
}
