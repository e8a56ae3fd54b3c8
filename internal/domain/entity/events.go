package entity

// PurchaseEvent is the message published to the event stream after a
// purchase has been mined into a block.
type PurchaseEvent struct {
	TransactionID   string  `json:"transaction_id"`
	TransactionHash string  `json:"transaction_hash"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	BuyerAddress    string  `json:"buyer_address"`
	SellerAddress   string  `json:"seller_address"`
	Amount          float64 `json:"amount"`
	Quantity        uint32  `json:"quantity"`
	BlockIndex      uint64  `json:"block_index"`
	BlockHash       string  `json:"block_hash"`
	Timestamp       int64   `json:"timestamp"`
}
