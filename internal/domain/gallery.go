package domain

// GalleryItem is an image object in the media bucket.
type GalleryItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GalleryUploadResponse is returned after a gallery upload.
type GalleryUploadResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}
