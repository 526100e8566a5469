package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing. SEVERITY values are deliberately lowercase to
// exercise the preprocessor.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>Info</SEVERITY>
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>Info</SEVERITY>
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260201120000[0:GMT]
<DTEND>20260228120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260215120000[0:GMT]
<TRNAMT>-25.50
<FITID>2026021501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260220120000[0:GMT]
<TRNAMT>2500.00
<FITID>2026022001
<NAME>DEPOSIT
<MEMO>ACME CORP PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260228120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()

	txns, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	coffee := txns[0]
	assert.Equal(t, "2026021501", coffee.ID)
	assert.Equal(t, "1234567890", coffee.AccountID)
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Name)
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.MerchantName)
	// OFX debits are negative; the engine convention is positive = spent.
	assert.InDelta(t, 25.50, coffee.Amount, 0.001)
	assert.Equal(t, "DEBIT", coffee.TransactionCode)
	assert.NotEmpty(t, coffee.Hash)

	payroll := txns[1]
	// A generic NAME defers to the MEMO for the merchant.
	assert.Equal(t, "ACME CORP PAYROLL", payroll.MerchantName)
	assert.InDelta(t, -2500.00, payroll.Amount, 0.001)
	assert.Equal(t, "CREDIT", payroll.TransactionCode)
}

func TestParser_ParseFileInvalid(t *testing.T) {
	parser := NewParser()

	_, err := parser.ParseFile(context.Background(), strings.NewReader("not an ofx file"))
	require.Error(t, err)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "uppercases severity",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "closes bare opening tags",
			input: "  <STMTTRN\n",
			want:  "<STMTTRN>\n",
		},
		{
			name:  "trims leading whitespace",
			input: "\n\nOFXHEADER:100",
			want:  "OFXHEADER:100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocessOFX(tt.input))
		})
	}
}
