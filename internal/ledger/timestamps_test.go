package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatTimestamp(t *testing.T) {
	require.Nil(t, FormatTimestamp(time.Time{}))
	require.Nil(t, FormatTimestampPtr(nil))

	loc := time.FixedZone("CET", 3600)
	s := FormatTimestamp(time.Date(2024, 3, 1, 13, 4, 5, 250_000_000, loc))
	require.NotNil(t, s)
	require.Equal(t, "2024-03-01T12:04:05.250Z", *s)
}

func TestNormalizeValue_Nested(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := primitive.D{
		{Key: "levelId", Value: "lvl-1"},
		{Key: "completedAt", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "stamp", Value: primitive.Timestamp{T: uint32(at.Unix())}},
		{Key: "nested", Value: primitive.M{"when": at, "none": time.Time{}}},
		{Key: "list", Value: primitive.A{at, 3, "x"}},
	}

	out, ok := NormalizeValue(in).(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "lvl-1", out["levelId"])
	require.Equal(t, "2024-01-02T03:04:05.000Z", out["completedAt"])
	require.Equal(t, "2024-01-02T03:04:05.000Z", out["stamp"])

	nested := out["nested"].(map[string]interface{})
	require.Equal(t, "2024-01-02T03:04:05.000Z", nested["when"])
	require.Nil(t, nested["none"])

	require.Equal(t, []interface{}{"2024-01-02T03:04:05.000Z", 3, "x"}, out["list"])

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "$date")
}

func TestWalletView_NullCreatedAt(t *testing.T) {
	r := &WalletRecord{ID: "w1", Amount: 5, Reason: "legacy"}
	raw, err := json.Marshal(r.View())
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"w1","amount":5,"reason":"legacy","createdAt":null,"metadata":{}}`, string(raw))
}
