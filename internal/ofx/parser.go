// Package ofx turns OFX/QFX statements into transaction drafts for import.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/model"
)

// AccountKind is the statement type an entry came from.
type AccountKind string

const (
	// AccountBank is a checking or savings statement.
	AccountBank AccountKind = "bank"
	// AccountCreditCard is a credit card statement.
	AccountCreditCard AccountKind = "credit_card"
)

// Draft is one statement entry ready to become a transaction. Credits are
// income and debits are expenses; Amount is always positive.
type Draft struct {
	Date        model.Date
	Amount      decimal.Decimal
	Type        model.TransactionType
	Description string
	Memo        string
	FitID       string
	AccountID   string
	Kind        AccountKind
}

// Transaction builds the transaction to create. paymentMethodID is dropped for income.
func (d Draft) Transaction(categoryID int, paymentMethodID *int) model.Transaction {
	tx := model.Transaction{
		Date:        d.Date,
		Amount:      d.Amount,
		Type:        d.Type,
		Description: d.Description,
		Notes:       d.Memo,
		CategoryID:  categoryID,
	}
	if d.Type == model.TransactionExpense {
		tx.PaymentMethodID = paymentMethodID
	}
	return tx
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file into drafts in statement order. Zero-amount entries are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Draft, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var drafts []Draft
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			drafts = p.appendDrafts(drafts, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID), AccountBank)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			drafts = p.appendDrafts(drafts, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID), AccountCreditCard)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

func (p *Parser) appendDrafts(drafts []Draft, txs []ofxgo.Transaction, accountID string, kind AccountKind) []Draft {
	for _, ofxTx := range txs {
		d, err := p.convertTransaction(ofxTx)
		if err != nil {
			slog.Warn("Skipping OFX entry", "fitid", string(ofxTx.FiTID), "error", err)
			continue
		}
		if d.Amount.IsZero() {
			continue
		}
		d.AccountID = accountID
		d.Kind = kind
		drafts = append(drafts, d)
	}
	return drafts
}

// convertTransaction maps the signed OFX amount to a type and a positive amount.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (Draft, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return Draft{}, fmt.Errorf("invalid amount: %w", err)
	}

	txType := model.TransactionIncome
	if amount.IsNegative() {
		txType = model.TransactionExpense
	}

	posted := ofxTx.DtPosted.Time

	return Draft{
		Date:        model.NewDate(posted.Year(), posted.Month(), posted.Day()),
		Amount:      amount.Abs(),
		Type:        txType,
		Description: p.extractMerchantName(ofxTx),
		Memo:        strings.TrimSpace(string(ofxTx.Memo)),
		FitID:       string(ofxTx.FiTID),
	}, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"COMPRA CARTAO ",
		"PIX ENVIADO ",
		"PIX RECEBIDO ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// SkipExisting drops drafts that match an existing transaction on date, type,
// amount and description, so re-importing a statement does not duplicate entries.
func SkipExisting(drafts []Draft, existing []model.Transaction) (fresh []Draft, skipped int) {
	seen := make(map[string]int, len(existing))
	for _, tx := range existing {
		seen[draftKey(tx.Date, tx.Type, tx.Amount, tx.Description)]++
	}

	for _, d := range drafts {
		key := draftKey(d.Date, d.Type, d.Amount, d.Description)
		if seen[key] > 0 {
			seen[key]--
			skipped++
			continue
		}
		fresh = append(fresh, d)
	}
	return fresh, skipped
}

func draftKey(date model.Date, t model.TransactionType, amount decimal.Decimal, description string) string {
	return fmt.Sprintf("%s|%s|%s|%s", date.String(), t, amount.StringFixed(2), strings.ToUpper(strings.TrimSpace(description)))
}
