package workflow

// Field names match the JSON keys of the registration payload.
type Field string

const (
	FieldFirstName     Field = "firstName"
	FieldSurname       Field = "surname"
	FieldPhone         Field = "phone"
	FieldEmail         Field = "email"
	FieldNIN           Field = "nin"
	FieldBVN           Field = "bvn"
	FieldAddress       Field = "address"
	FieldZone          Field = "zone_id"
	FieldBank          Field = "bank_id"
	FieldAccountNumber Field = "account_number"
	FieldParallexID    Field = "parallex_id"
)

var requiredFields = []struct {
	field Field
	label string
}{
	{FieldFirstName, "First name"},
	{FieldSurname, "Surname"},
	{FieldPhone, "Phone number"},
	{FieldNIN, "NIN"},
	{FieldBVN, "BVN"},
	{FieldAddress, "Address"},
}

// Set updates one field. Region has its own setter because it fetches
// zones. Editing the bank or account number invalidates any account name
// and (re)starts the validation debounce.
func (w *Workflow) Set(field Field, value string) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}

	f := &w.form
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldSurname:
		f.Surname = value
	case FieldPhone:
		f.Phone = value
	case FieldEmail:
		f.Email = value
	case FieldNIN:
		f.NIN = value
	case FieldBVN:
		f.BVN = value
	case FieldAddress:
		f.Address = value
	case FieldParallexID:
		f.ParallexID = value
	case FieldZone:
		if f.RegionID == "" && value != "" {
			w.mu.Unlock()
			return ErrNoRegion
		}
		f.ZoneID = value
	case FieldBank:
		f.BankID = value
		w.accountChangedLocked()
	case FieldAccountNumber:
		f.AccountNumber = value
		w.accountChangedLocked()
	default:
		w.mu.Unlock()
		return ErrUnknownField
	}
	delete(w.fieldErrors, string(field))
	w.mu.Unlock()

	w.notify()
	return nil
}

// checkRequiredLocked fills fieldErrors and reports whether all required
// personal fields are present. Caller holds w.mu.
func (w *Workflow) checkRequiredLocked() bool {
	values := map[Field]string{
		FieldFirstName: w.form.FirstName,
		FieldSurname:   w.form.Surname,
		FieldPhone:     w.form.Phone,
		FieldNIN:       w.form.NIN,
		FieldBVN:       w.form.BVN,
		FieldAddress:   w.form.Address,
	}

	w.fieldErrors = map[string]string{}
	for _, rf := range requiredFields {
		if values[rf.field] == "" {
			w.fieldErrors[string(rf.field)] = rf.label + " is required"
		}
	}
	return len(w.fieldErrors) == 0
}
