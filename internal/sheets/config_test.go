package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID:      "client-id",
				ClientSecret:  "client-secret",
				RefreshToken:  "refresh-token",
				SpreadsheetID: "sheet-id",
				SheetName:     "Transactions",
			},
			wantErr: false,
		},
		{
			name: "valid service account config",
			config: Config{
				ServiceAccountPath: "/path/to/sa.json",
				SpreadsheetID:      "sheet-id",
				SheetName:          "Transactions",
			},
			wantErr: false,
		},
		{
			name: "no auth method",
			config: Config{
				SpreadsheetID: "sheet-id",
				SheetName:     "Transactions",
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "client-id",
				ClientSecret:       "client-secret",
				RefreshToken:       "refresh-token",
				ServiceAccountPath: "/path/to/sa.json",
				SpreadsheetID:      "sheet-id",
				SheetName:          "Transactions",
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "partial oauth is no auth",
			config: Config{
				ClientID:      "client-id",
				SpreadsheetID: "sheet-id",
				SheetName:     "Transactions",
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "missing spreadsheet id",
			config: Config{
				ServiceAccountPath: "/path/to/sa.json",
				SheetName:          "Transactions",
			},
			wantErr: true,
			errMsg:  "spreadsheet id is required",
		},
		{
			name: "missing sheet name",
			config: Config{
				ServiceAccountPath: "/path/to/sa.json",
				SpreadsheetID:      "sheet-id",
			},
			wantErr: true,
			errMsg:  "sheet name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Transactions", cfg.SheetName)
}
