package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
	"github.com/tagsnap/tagsnap/internal/service"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "no auth configured",
			config:  DefaultConfig(),
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "oauth only",
			config: Config{
				ClientID:     "id",
				ClientSecret: "secret",
				RefreshToken: "token",
			},
		},
		{
			name: "service account only",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "id",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromEnvFillsOnlyUnsetFields(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	config := DefaultConfig()
	config.ClientID = "file-id"

	config.LoadFromEnv()

	assert.Equal(t, "file-id", config.ClientID, "config file value wins over env")
	assert.Equal(t, "env-secret", config.ClientSecret)
	assert.Equal(t, "env-token", config.RefreshToken)
	assert.Equal(t, "env-sheet", config.SpreadsheetID)
	assert.NoError(t, config.Validate())
}

func TestPrepareHistoryRows(t *testing.T) {
	purchases := []model.Purchase{
		{
			Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			ProductName: "Wool Scarf",
			Original:    model.Money{Amount: 39.50, Currency: "TRY"},
			Converted:   model.Money{Amount: 1.22, Currency: "USD"},
			Location:    "Istanbul",
			TripName:    "Turkey 2026",
			Labels:      []string{"souvenir", "gift"},
		},
	}
	trips := []service.TripSummary{
		{
			Name:      "Turkey 2026",
			Purchases: 1,
			FirstDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			LastDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Totals:    []model.Money{{Amount: 1.22, Currency: "USD"}},
		},
	}

	rows := prepareHistoryRows(purchases, trips)

	require.GreaterOrEqual(t, len(rows), 7)
	assert.Equal(t, []any{"Travel Purchases"}, rows[0])
	assert.Equal(t, "Date", rows[2][0])

	purchaseRow := rows[3]
	assert.Equal(t, "2026-03-02", purchaseRow[0])
	assert.Equal(t, "Wool Scarf", purchaseRow[1])
	assert.Equal(t, "39.50 TRY", purchaseRow[2])
	assert.Equal(t, "souvenir, gift", purchaseRow[6])

	tripRow := rows[len(rows)-1]
	assert.Equal(t, "Turkey 2026", tripRow[0])
	assert.Equal(t, "1.22 USD", tripRow[4])
}

func TestPrepareHistoryRowsEmptyTrips(t *testing.T) {
	rows := prepareHistoryRows(nil, nil)

	require.Len(t, rows, 3, "no trip section without trips")
}
