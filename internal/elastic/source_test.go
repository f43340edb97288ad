package elastic_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-finder/internal/elastic"
	"shop-finder/internal/models"
)

const hitsPayload = `{
  "took": 2,
  "timed_out": false,
  "hits": {
    "total": {"value": 3, "relation": "eq"},
    "hits": [
      {"_index": "shops", "_id": "s1", "_score": null,
       "_source": {"name": "Ivy Moda", "address": "44 Hàng Đào", "location": {"lat": 21.034, "lon": 105.851},
                   "category": "Thời trang nữ", "price_range": "Trung bình", "notes": "Sale 20%"}},
      {"_index": "shops", "_id": "s2", "_score": null,
       "_source": {"name": "No location"}},
      {"_index": "shops", "_id": "s3", "_score": null, "_source": "broken"}
    ]
  }
}`

func TestSearchDecodesHits(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(hitsPayload))
	}))
	defer srv.Close()

	src, err := elastic.New(elastic.Config{URL: srv.URL, Index: "shops"}, nil)
	require.NoError(t, err)

	shops, err := src.Search(context.Background(), models.Coordinate{Lat: 21.03, Lon: 105.85}, 5)
	require.NoError(t, err)
	require.Len(t, shops, 2)

	assert.Equal(t, "/shops/_search", path)
	assert.Contains(t, body, `"geo_distance"`)
	assert.Contains(t, body, `"5km"`)
	assert.Contains(t, body, `"size":200`)

	assert.Equal(t, "Ivy Moda", shops[0].Name)
	assert.Equal(t, "Sale 20%", shops[0].Notes)
	assert.Equal(t, elastic.SourceTag, shops[0].Source)
	assert.Equal(t, "s1", shops[0].SourceID)
	assert.Equal(t, models.Coordinate{Lat: 21.034, Lon: 105.851}, *shops[0].Location)

	assert.Equal(t, "No location", shops[1].Name)
	assert.Nil(t, shops[1].Location)
}

func TestSearchClusterError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`))
	}))
	defer srv.Close()

	src, err := elastic.New(elastic.Config{URL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = src.Search(context.Background(), models.Coordinate{Lat: 21, Lon: 105}, 1)
	require.Error(t, err)
}
