package repo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kasionely/korner-integrations-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonNode stands in for db.TransactionNode.
type jsonNode string

func (n jsonNode) Unmarshal(v interface{}) error {
	return json.Unmarshal([]byte(n), v)
}

func nodeOf(t *testing.T, rec *firebaseRecord) jsonNode {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	return jsonNode(raw)
}

func TestFirebaseSaveRecord(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := model.NewSession("Anna", 7)
	rec, err := saveRecord(jsonNode("null"), s, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), rec.ExpiresAt)
	assert.Equal(t, int64(0), s.Version, "caller's session is updated only after commit")

	s.Version = rec.Version
	s.ToggleOption("A")
	next, err := saveRecord(nodeOf(t, rec), s, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Version)
	assert.Equal(t, []string{"A"}, next.SelectedOptions)

	_, err = saveRecord(nodeOf(t, next), s, time.Hour, now)
	assert.ErrorIs(t, err, model.ErrVersionConflict)
}

func TestFirebaseRecordLayout(t *testing.T) {
	rec := &firebaseRecord{Session: *model.NewSession("Anna", 7), ExpiresAt: 1000}
	rec.Version = 3

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(nodeOf(t, rec)), &fields))
	for _, key := range []string{"step", "answers", "selectedOptions", "awaitingOtherText", "displayName", "channelId", "version", "expiresAt"} {
		assert.Contains(t, fields, key)
	}
}

func TestFirebaseExpiredRecordIsAbsent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := &firebaseRecord{Session: *model.NewSession("Anna", 7), ExpiresAt: now.UnixMilli()}
	rec.Version = 3

	current, err := currentRecord(nodeOf(t, rec), now)
	require.NoError(t, err)
	assert.Nil(t, current)

	assert.ErrorIs(t, deleteRecord(nodeOf(t, rec), 3, now), model.ErrVersionConflict)
	assert.NoError(t, deleteRecord(nodeOf(t, rec), 3, now.Add(-time.Minute)))
}
