package models

// ViewRequest carries the query parameters shared by every view of the map.
type ViewRequest struct {
	Metric string  `form:"metric"`
	Width  float64 `form:"w"`
	Height float64 `form:"h"`
	State  string  `form:"state"`
}

// ImageRequest adds the pixel size of a rendered image.
type ImageRequest struct {
	ViewRequest
	ImageWidth  int `form:"iw"`
	ImageHeight int `form:"ih"`
}
