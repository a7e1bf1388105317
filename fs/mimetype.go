package fs

import (
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Number of bytes read from the start of a file to sniff its type
const sniffLen = 3072

// MimeTypeFromName returns a guess at the mime type from the name
func MimeTypeFromName(remote string) (mimeType string) {
	mimeType = mime.TypeByExtension(path.Ext(remote))
	if !strings.ContainsRune(mimeType, '/') {
		mimeType = "application/octet-stream"
	}
	return mimeType
}

// MimeTypeFromContent returns the mime type of the content read from
// in. At most sniffLen bytes are consumed.
func MimeTypeFromContent(in io.Reader) (mimeType string, err error) {
	mtype, err := mimetype.DetectReader(io.LimitReader(in, sniffLen))
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// MimeType returns the mime type for the file called remote, looking
// at its extension first and sniffing the content opened with open
// if the extension doesn't tell.
func MimeType(remote string, open func() (io.ReadCloser, error)) (mimeType string) {
	mimeType = MimeTypeFromName(remote)
	if mimeType != "application/octet-stream" || open == nil {
		return mimeType
	}
	in, err := open()
	if err != nil {
		Debugf(remote, "Failed to open for mime type detection: %v", err)
		return mimeType
	}
	defer func() {
		_ = in.Close()
	}()
	sniffed, err := MimeTypeFromContent(in)
	if err != nil {
		Debugf(remote, "Failed to detect mime type: %v", err)
		return mimeType
	}
	return sniffed
}
