package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordFilter_Match(t *testing.T) {
	t.Parallel()
	r := Record{ID: "412367", Status: "Verified"}

	cases := []struct {
		name string
		f    RecordFilter
		want bool
	}{
		{"empty", RecordFilter{}, true},
		{"status", RecordFilter{Status: "Verified"}, true},
		{"status mismatch", RecordFilter{Status: "verified"}, false},
		{"id substring", RecordFilter{IDContains: "123"}, true},
		{"id mismatch", RecordFilter{IDContains: "999"}, false},
		{"both", RecordFilter{Status: "Verified", IDContains: "236"}, true},
		{"both one fails", RecordFilter{Status: "Scammer", IDContains: "236"}, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.f.Match(r), tc.name)
	}
}

func TestRecord_CloneDoesNotAlias(t *testing.T) {
	t.Parallel()
	r := Record{ID: "100000", Patents: []PatentClaim{{ID: "a", Text: "x"}}}
	c := r.Clone()
	c.Patents[0].Text = "changed"
	require.Equal(t, "x", r.Patents[0].Text)
}

func TestRecord_JSONNames(t *testing.T) {
	t.Parallel()
	raw := `{"id":"123456","owner":"Ivan","username":"ivan","channelOrProfile":"t.me/ivan","age":"25",
"reason":"Public figure","patents":[{"id":"p1","text":"owns @ivan"}],"status":"Verified account",
"statusNote":"","otherSocialNetworks":"","createdAt":"2024-01-31T00:00:00.000Z","photoUrl":"ivan.png"}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.Equal(t, "123456", r.ID)
	require.Equal(t, "t.me/ivan", r.ChannelOrProfile)
	require.Equal(t, "ivan.png", r.PhotoRef)
	require.True(t, r.CreatedAt.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	require.Len(t, r.Patents, 1)

	out, err := json.Marshal(Record{ID: "1"})
	require.NoError(t, err)
	require.NotContains(t, string(out), "photoUrl")
}

func TestValidColor(t *testing.T) {
	t.Parallel()
	for _, c := range []string{"#fff", "#FFC107", "#4caf50"} {
		require.True(t, ValidColor(c), c)
	}
	for _, c := range []string{"", "fff", "#ffff", "#12345", "#GGGGGG", "green", "#fff\n"} {
		require.False(t, ValidColor(c), c)
	}
}
