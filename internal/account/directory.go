package account

import (
	"context"
	"errors"
	"strconv"
)

// HouseBank is the bank name reported for internal accounts.
const HouseBank = "USBankCorp"

// Beneficiary is the resolved display identity of a transfer recipient.
type Beneficiary struct {
	AccountNumber string
	AccountName   string
	BankName      string
}

// Directory resolves account numbers to holder and bank names at transfer
// creation time. Resolution order: internal customers, the known external
// account table, then the synthetic directory fallback.
type Directory struct {
	accounts Repository
}

func NewDirectory(accounts Repository) *Directory {
	return &Directory{accounts: accounts}
}

// Resolve returns the beneficiary for the given account number, or
// ErrNotFound when the number cannot be resolved at all.
func (d *Directory) Resolve(ctx context.Context, accountNumber string) (*Beneficiary, error) {
	internal, err := d.accounts.GetAccountByNumber(ctx, accountNumber)
	if err == nil {
		return &Beneficiary{
			AccountNumber: accountNumber,
			AccountName:   internal.Name,
			BankName:      HouseBank,
		}, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for _, ext := range externalAccounts {
		if ext.AccountNumber == accountNumber {
			b := ext
			return &b, nil
		}
	}

	return syntheticBeneficiary(accountNumber)
}

// syntheticBeneficiary is the explicit fallback for account numbers outside
// the known set: any number of at least eight digits resolves to a holder and
// bank picked deterministically from its trailing digits. This simulates a
// bank that can transfer to arbitrary valid accounts; it is not a real lookup.
func syntheticBeneficiary(accountNumber string) (*Beneficiary, error) {
	if len(accountNumber) < 8 {
		return nil, ErrNotFound
	}

	nameDigits, err := strconv.Atoi(accountNumber[len(accountNumber)-2:])
	if err != nil {
		return nil, ErrNotFound
	}

	bankDigits, err := strconv.Atoi(accountNumber[len(accountNumber)-3 : len(accountNumber)-1])
	if err != nil {
		return nil, ErrNotFound
	}

	return &Beneficiary{
		AccountNumber: accountNumber,
		AccountName:   syntheticNames[nameDigits%len(syntheticNames)],
		BankName:      syntheticBanks[bankDigits%len(syntheticBanks)],
	}, nil
}

// Known accounts at partner banks.
var externalAccounts = []Beneficiary{
	{AccountNumber: "1111222233", AccountName: "Michael Johnson", BankName: "JPMorgan Chase Bank"},
	{AccountNumber: "4444555566", AccountName: "Sarah Williams", BankName: "Bank of America"},
	{AccountNumber: "7777888899", AccountName: "David Brown", BankName: "Wells Fargo Bank"},
	{AccountNumber: "2222333344", AccountName: "Emily Davis", BankName: "Citibank"},
	{AccountNumber: "5555666677", AccountName: "Robert Wilson", BankName: "Goldman Sachs Bank"},
	{AccountNumber: "8888999900", AccountName: "Jennifer Martinez", BankName: "Morgan Stanley Bank"},
	{AccountNumber: "3333444455", AccountName: "Christopher Lee", BankName: "U.S. Bank"},
	{AccountNumber: "6666777788", AccountName: "Amanda Taylor", BankName: "PNC Bank"},
	{AccountNumber: "9999000011", AccountName: "James Anderson", BankName: "Capital One Bank"},
	{AccountNumber: "1122334455", AccountName: "Lisa Thompson", BankName: "TD Bank"},
	{AccountNumber: "2233445566", AccountName: "Pierre Dubois", BankName: "BNP Paribas"},
	{AccountNumber: "3344556677", AccountName: "Hans Mueller", BankName: "Deutsche Bank"},
	{AccountNumber: "4455667788", AccountName: "Giovanni Rossi", BankName: "UniCredit Bank"},
	{AccountNumber: "5566778899", AccountName: "Carlos Rodriguez", BankName: "Banco Santander"},
	{AccountNumber: "6677889900", AccountName: "Emma Thompson", BankName: "Barclays Bank"},
	{AccountNumber: "7788990011", AccountName: "Lars Andersson", BankName: "Nordea Bank"},
	{AccountNumber: "8899001122", AccountName: "Marie Leclerc", BankName: "Crédit Agricole"},
	{AccountNumber: "9900112233", AccountName: "Klaus Weber", BankName: "Commerzbank"},
	{AccountNumber: "0011223344", AccountName: "Sofia Petrov", BankName: "ING Bank"},
	{AccountNumber: "1234567891", AccountName: "Antonio Silva", BankName: "Banco do Brasil"},
	{AccountNumber: "2345678912", AccountName: "Francesca Bianchi", BankName: "Intesa Sanpaolo"},
	{AccountNumber: "3456789123", AccountName: "Oliver Smith", BankName: "HSBC Bank"},
	{AccountNumber: "4567891234", AccountName: "Anna Kowalski", BankName: "PKO Bank Polski"},
	{AccountNumber: "5678912345", AccountName: "Jean Martin", BankName: "Société Générale"},
	{AccountNumber: "6789123456", AccountName: "Erik Nielsen", BankName: "Danske Bank"},
}

var syntheticNames = []string{
	"Alex Johnson", "Maria Garcia", "David Chen", "Sarah Williams", "Michael Brown",
	"Emma Davis", "James Wilson", "Lisa Anderson", "Robert Taylor", "Jennifer Martinez",
	"Christopher Lee", "Amanda Thompson", "Daniel Rodriguez", "Jessica White", "Matthew Harris",
	"Ashley Clark", "Joshua Lewis", "Stephanie Walker", "Andrew Hall", "Melissa Young",
	"Kevin Allen", "Nicole King", "Brian Wright", "Rachel Green", "Justin Scott",
	"Heather Adams", "Ryan Baker", "Kimberly Nelson", "Brandon Carter", "Amy Mitchell",
	"Tyler Perez", "Samantha Roberts", "Jason Turner", "Elizabeth Phillips", "Aaron Campbell",
	"Michelle Parker", "Jacob Evans", "Laura Edwards", "Nicholas Collins", "Rebecca Stewart",
	"Jonathan Morris", "Deborah Rogers", "Anthony Reed", "Sharon Cook", "Mark Bailey",
	"Cynthia Cooper", "Steven Richardson", "Kathleen Cox", "Paul Ward", "Helen Torres",
	"Pierre Dubois", "Hans Mueller", "Giovanni Rossi", "Carlos Rodriguez", "Emma Thompson",
	"Lars Andersson", "Marie Leclerc", "Klaus Weber", "Sofia Petrov", "Antonio Silva",
	"Francesca Bianchi", "Oliver Smith", "Anna Kowalski", "Jean Martin", "Erik Nielsen",
}

var syntheticBanks = []string{
	"JPMorgan Chase Bank", "Bank of America", "Wells Fargo Bank", "Citibank", "U.S. Bank",
	"PNC Bank", "Goldman Sachs Bank", "Morgan Stanley Bank", "Capital One Bank", "TD Bank",
	"Truist Bank", "Charles Schwab Bank", "American Express Bank", "Discover Bank", "Ally Bank",
	"BNP Paribas", "Deutsche Bank", "UniCredit Bank", "Banco Santander", "Barclays Bank",
	"HSBC Bank", "ING Bank", "Nordea Bank", "Danske Bank", "Crédit Agricole",
	"Société Générale", "Commerzbank", "Intesa Sanpaolo", "ABN AMRO Bank", "Rabobank",
	"Standard Chartered Bank", "Credit Suisse", "UBS", "Lloyds Banking Group", "Royal Bank of Scotland",
	"Banco Bilbao Vizcaya Argentaria", "CaixaBank", "PKO Bank Polski", "Erste Group Bank", "KBC Bank",
	"Swedbank", "Handelsbanken", "DNB Bank", "Alpha Bank", "National Bank of Greece",
	"Bank of China", "Industrial and Commercial Bank of China", "Mitsubishi UFJ Financial Group",
	"Sumitomo Mitsui Banking Corporation", "Mizuho Financial Group", "DBS Bank", "OCBC Bank",
	"United Overseas Bank", "CIMB Bank", "Maybank", "Bangkok Bank", "Kasikornbank",
	"Commonwealth Bank of Australia", "Westpac Banking Corporation",
	"Australia and New Zealand Banking Group", "National Australia Bank", "Royal Bank of Canada",
	"Toronto-Dominion Bank", "Bank of Nova Scotia", "Bank of Montreal",
	"Canadian Imperial Bank of Commerce", "Banco do Brasil", "Itaú Unibanco", "Banco Bradesco",
	"Banco Santander Brasil", "Standard Bank", "FirstRand Bank", "Nedbank", "ABSA Bank",
	"Sberbank", "VTB Bank", "Gazprombank", "Alfa-Bank",
}
