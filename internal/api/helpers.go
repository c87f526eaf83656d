package api

import (
	"encoding/json/v2"
	"io"
	"net/http"
)

// maxBodySize caps request bodies at 1 MB. Notes are text, not uploads.
const maxBodySize = 1 << 20

// decodeJSON reads and decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()
	return json.UnmarshalRead(body, dst)
}
