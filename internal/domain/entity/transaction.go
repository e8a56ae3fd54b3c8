package entity

// Transaction represents a single purchase event recorded on the ledger.
// Hash covers every other field at the moment it is computed; once the
// transaction is embedded in a mined block it is immutable.
type Transaction struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	BuyerAddress  string  `json:"buyer_address"`
	SellerAddress string  `json:"seller_address"`
	Amount        float64 `json:"amount"`
	Timestamp     int64   `json:"timestamp"`
	Hash          string  `json:"hash"`
	PreviousHash  string  `json:"previous_hash"`
	Nonce         uint64  `json:"nonce"`
}
