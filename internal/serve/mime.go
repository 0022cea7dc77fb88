package serve

import "strings"

// mimeTable is the fixed extension table used for any resolved file that
// isn't markdown. The fallback is application/octet-stream, deliberately
// chosen so browsers won't MIME-sniff an unrecognized type into something
// executable.
var mimeTable = map[string]string{
	"html": "text/html; charset=utf-8",
	"htm":  "text/html; charset=utf-8",
	"css":  "text/css; charset=utf-8",
	"js":   "text/javascript; charset=utf-8",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"svg":  "image/svg+xml",
	"gif":  "image/gif",
	"ico":  "image/x-icon",
	"woff2": "font/woff2",
	"pdf":  "application/pdf",
}

// mimeForExt looks up ext (without the leading dot, any case) in the fixed
// table, falling back to application/octet-stream.
func mimeForExt(ext string) string {
	if t, ok := mimeTable[strings.ToLower(ext)]; ok {
		return t
	}
	return "application/octet-stream"
}
