package es

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	q := BuildSearchQuery("stapler", 20, 10)

	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var got struct {
		Query struct {
			MultiMatch struct {
				Query     string   `json:"query"`
				Fields    []string `json:"fields"`
				Fuzziness string   `json:"fuzziness"`
			} `json:"multi_match"`
		} `json:"query"`
		From int `json:"from"`
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "stapler", got.Query.MultiMatch.Query)
	assert.Equal(t, "AUTO", got.Query.MultiMatch.Fuzziness)
	assert.Contains(t, got.Query.MultiMatch.Fields, "name^2")
	assert.Equal(t, 20, got.From)
	assert.Equal(t, 10, got.Size)
}

func TestDecodeSearchIDs(t *testing.T) {
	body := `{"hits":{"total":{"value":3,"relation":"eq"},"hits":[
		{"_id":"5","_source":{"id":5}},
		{"_id":"2","_source":{"id":2}}
	]}}`

	ids, total, err := decodeSearchIDs(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []uint{5, 2}, ids)
}

func TestDecodeSearchIDs_BadBody(t *testing.T) {
	_, _, err := decodeSearchIDs(strings.NewReader("{"))
	require.Error(t, err)
}
