package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/the-rent-must-flow/internal/ofx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const januaryStatement = `OFXHEADER:100
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
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240102120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024010201
<NAME>ZELLE FROM JANE TENANT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>ACH DEBIT CITY WATER UTILITY
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestExpandFiles(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"jan.qfx", "feb.qfx", "notes.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("test"), 0o600))
	}

	tests := []struct {
		name     string
		patterns []string
		expected int
		wantErr  bool
	}{
		{name: "glob", patterns: []string{filepath.Join(tempDir, "*.qfx")}, expected: 2},
		{name: "plain path", patterns: []string{filepath.Join(tempDir, "notes.csv")}, expected: 1},
		{name: "mixed", patterns: []string{filepath.Join(tempDir, "*.qfx"), filepath.Join(tempDir, "notes.csv")}, expected: 3},
		{name: "nothing matches", patterns: []string{filepath.Join(tempDir, "*.ofx")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := expandFiles(tt.patterns)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, files, tt.expected)
		})
	}
}

func TestParseOFXFiles_DeduplicatesOverlappingStatements(t *testing.T) {
	tempDir := t.TempDir()
	first := filepath.Join(tempDir, "jan.qfx")
	overlap := filepath.Join(tempDir, "jan_again.qfx")
	broken := filepath.Join(tempDir, "broken.qfx")

	require.NoError(t, os.WriteFile(first, []byte(januaryStatement), 0o600))
	require.NoError(t, os.WriteFile(overlap, []byte(januaryStatement), 0o600))
	require.NoError(t, os.WriteFile(broken, []byte("not ofx"), 0o600))

	txns := parseOFXFiles(context.Background(), ofx.NewParser("maple-a"), []string{first, broken, overlap})
	require.Len(t, txns, 2)

	for _, tx := range txns {
		assert.Equal(t, "maple-a", tx.CostCenter)
		assert.NotEmpty(t, tx.Hash)
	}
	assert.InDelta(t, 1500.0, txns[0].Amount, 0.001)
	assert.Equal(t, ofx.CategoryIncome, txns[0].Category.L0)
	assert.Equal(t, ofx.CategoryExpense, txns[1].Category.L0)
}
