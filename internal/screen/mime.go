package screen

import (
	"log"
	"mime"
)

// Browsers often send uploads as application/octet-stream, so the extension
// decides; the system table is not always present.
func init() {
	ensureMimeType(".css", "text/css; charset=utf-8")
	ensureMimeType(".mp3", "audio/mpeg")
	ensureMimeType(".m4a", "audio/mp4")
	ensureMimeType(".wav", "audio/wav")
	ensureMimeType(".ogg", "audio/ogg")
	ensureMimeType(".mp4", "video/mp4")
	ensureMimeType(".mov", "video/quicktime")
	ensureMimeType(".webm", "video/webm")
	ensureMimeType(".heic", "image/heic")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("screen: failed to register MIME type for %s: %v", ext, err)
	}
}
