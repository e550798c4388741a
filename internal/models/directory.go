package models

type Region struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name" json:"name"`
}

// Zone belongs to exactly one region; the relation lives in the store path.
type Zone struct {
	ID   string `firestore:"id" json:"id"`
	Name string `firestore:"name" json:"name"`
}

// Bank.ID doubles as the bank code sent to account validation.
type Bank struct {
	ID       string `firestore:"id" json:"id"`
	BankName string `firestore:"bankName" json:"bank_name"`
}
