package overpass

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// element mirrors the parts of an Overpass node/way we use. Ways only carry
// a center when the query asks for "out center".
type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type response struct {
	Elements []element `json:"elements"`
}
