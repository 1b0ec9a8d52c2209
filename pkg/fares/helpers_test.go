package fares

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return raw
}

func parseFixture(t *testing.T) FareResponse {
	t.Helper()

	doc, err := Parse(readFixture(t, "resp1.json"))
	require.NoError(t, err)

	return doc
}

func encodeTree(t *testing.T, tree any) []byte {
	t.Helper()

	raw, err := json.Marshal(tree)
	require.NoError(t, err)

	return raw
}

func flowTree() map[string]any {
	return map[string]any{
		"o": "Q202", "d": "Q235", "route": "00000", "id": 1234567, "discind": 1,
		"fares": []any{
			map[string]any{"a": "270", "c": "135", "t": "7DF", "r": "BE"},
			map[string]any{"a": "1540", "c": "770", "t": "SOR", "r": "  "},
		},
	}
}

// validTree is a small valid document which tests break one field at a time.
func validTree() map[string]any {
	return map[string]any{
		"tech": map[string]any{"serverutc": "123456789", "servercpu": "12345", "computerid": "{guid}"},
		"fares": map[string]any{
			"ftec": map[string]any{"version": "989", "ndfversion": "822"},
			"orig": "Poole",
			"dest": "Oxford",
			"result": []any{
				map[string]any{
					"rlc": "YNG",
					"plusbus": map[string]any{
						"o": "5883", "d": "1215", "po": "H132", "pd": "J809",
						"fares": map[string]any{
							"b0":  map[string]any{"a": 210, "c": 105},
							"sw1": map[string]any{"a": 1300, "c": 650},
						},
					},
					"flows": []any{flowTree(), flowTree()},
				},
			},
		},
		"times": map[string]any{
			"ocrs": "POO", "dcrs": "SOU",
			"journeys": []any{
				map[string]any{"dep": 600, "arr": 720},
				map[string]any{"dep": 639, "arr": 749},
			},
		},
	}
}

func treeObject(tree map[string]any, keys ...string) map[string]any {
	current := tree
	for _, key := range keys {
		current = current[key].(map[string]any)
	}

	return current
}

func resultTree(tree map[string]any) map[string]any {
	return treeObject(tree, "fares")["result"].([]any)[0].(map[string]any)
}

func flowAt(tree map[string]any, i int) map[string]any {
	return resultTree(tree)["flows"].([]any)[i].(map[string]any)
}

func flowFareAt(tree map[string]any, flow int, fare int) map[string]any {
	return flowAt(tree, flow)["fares"].([]any)[fare].(map[string]any)
}

func plusBusTree(tree map[string]any) map[string]any {
	return resultTree(tree)["plusbus"].(map[string]any)
}

func journeyAt(tree map[string]any, i int) map[string]any {
	return treeObject(tree, "times")["journeys"].([]any)[i].(map[string]any)
}
