package account

import "context"

// Demo fixtures standing in for a customer database: two customers and one
// administrator.
var (
	seedAccounts = []*Account{
		{
			ID:            "1",
			Email:         "danielhenney707@gmail.com",
			Name:          "DANIEL HENNEY",
			AccountNumber: "1234567890",
			Balance:       701_667_289_202,
		},
		{
			ID:            "2",
			Email:         "jane@bank.com",
			Name:          "Jane Smith",
			AccountNumber: "0987654321",
			Balance:       1_275_025,
		},
	}

	seedAdmins = []*Admin{
		{
			ID:    "admin1",
			Email: "admin@usbankcorp.com",
			Name:  "Bank Administrator",
		},
	}
)

// Fixed is a read-only Repository over the seeded demo records.
type Fixed struct {
	accounts []*Account
	admins   []*Admin
}

// NewFixed returns the repository of demo customers and administrators.
func NewFixed() *Fixed {
	return &Fixed{accounts: seedAccounts, admins: seedAdmins}
}

func (f *Fixed) GetAccount(_ context.Context, id string) (*Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}

func (f *Fixed) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}

func (f *Fixed) GetAccountByNumber(_ context.Context, accountNumber string) (*Account, error) {
	for _, a := range f.accounts {
		if a.AccountNumber == accountNumber {
			cp := *a
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}

func (f *Fixed) ListAccounts(_ context.Context) ([]*Account, error) {
	out := make([]*Account, len(f.accounts))
	for i, a := range f.accounts {
		cp := *a
		out[i] = &cp
	}

	return out, nil
}

func (f *Fixed) GetAdminByEmail(_ context.Context, email string) (*Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}

	return nil, ErrNotFound
}
