package pexels

// photo is a media descriptor from the photo search endpoint.
type photo struct {
	ID              int64    `json:"id"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	URL             string   `json:"url"`
	Photographer    string   `json:"photographer"`
	PhotographerURL string   `json:"photographer_url"`
	Alt             string   `json:"alt"`
	Src             photoSrc `json:"src"`
}

type photoSrc struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// video is a media descriptor from the video search endpoint.
type video struct {
	ID         int64       `json:"id"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	URL        string      `json:"url"`
	Duration   int         `json:"duration"`
	User       videoUser   `json:"user"`
	VideoFiles []videoFile `json:"video_files"`
}

type videoUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type videoFile struct {
	ID       int64  `json:"id"`
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Link     string `json:"link"`
}

type searchResponse struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	Photos       []photo `json:"photos"`
	Videos       []video `json:"videos"`
}

// candidate is the first search result reduced to what a download needs.
type candidate struct {
	ID              int64
	PageURL         string
	DownloadURL     string
	Quality         string
	Photographer    string
	PhotographerURL string
	Width           int
	Height          int
}

// bestPhotoLink picks large2x, then large, then original, then medium.
func bestPhotoLink(p photo) (string, string) {
	tiers := []struct{ name, link string }{
		{"large2x", p.Src.Large2x},
		{"large", p.Src.Large},
		{"original", p.Src.Original},
		{"medium", p.Src.Medium},
	}
	for _, t := range tiers {
		if t.link != "" {
			return t.link, t.name
		}
	}
	return "", ""
}

// bestVideoFile picks the first hd file, then the first sd file, then the first file.
func bestVideoFile(v video) (videoFile, bool) {
	for _, quality := range []string{"hd", "sd"} {
		for _, f := range v.VideoFiles {
			if f.Quality == quality && f.Link != "" {
				return f, true
			}
		}
	}
	if len(v.VideoFiles) > 0 && v.VideoFiles[0].Link != "" {
		return v.VideoFiles[0], true
	}
	return videoFile{}, false
}

// sidecar is the attribution record written next to a downloaded asset.
type sidecar struct {
	Provider        string `json:"provider"`
	ID              int64  `json:"id"`
	PageURL         string `json:"url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographerUrl"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Query           string `json:"query"`
	SourceURL       string `json:"sourceUrl"`
	Quality         string `json:"quality,omitempty"`
}
