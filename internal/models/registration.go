package models

import (
	"time"
)

type Registration struct {
	RegistrationID string    `firestore:"registrationId" json:"registrationId"`
	Provider       string    `firestore:"provider" json:"provider"`
	FirstName      string    `firestore:"firstName" json:"firstName"`
	Surname        string    `firestore:"surname" json:"surname"`
	Phone          string    `firestore:"phone" json:"phone"`
	Email          string    `firestore:"email,omitempty" json:"email,omitempty"`
	NINCipher      string    `firestore:"ninCipher" json:"-"` // base64 KMS ciphertext
	BVNCipher      string    `firestore:"bvnCipher" json:"-"` // base64 KMS ciphertext
	BVNHash        string    `firestore:"bvnHash" json:"-"`   // keyed hash for duplicate checks
	Address        string    `firestore:"address" json:"address"`
	RegionID       string    `firestore:"regionId" json:"regionId"`
	ZoneID         string    `firestore:"zoneId" json:"zoneId"`
	BankID         string    `firestore:"bankId" json:"bankId"`
	AccountNumber  string    `firestore:"accountNumber" json:"accountNumber"`
	AccountName    string    `firestore:"accountName" json:"accountName"`
	ParallexID     string    `firestore:"parallexId" json:"parallexId"`
	IdentityUID    string    `firestore:"identityUid,omitempty" json:"identityUid,omitempty"` // Firebase Auth uid when provisioned
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}
