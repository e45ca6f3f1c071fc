// Package card renders the QR code printed on student cards.
package card

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
)

// DefaultSize is the width and height of the image in pixels.
const DefaultSize = 256

// StudentQR encodes the student number of u as a PNG image.
func StudentQR(u entity.User, size int) ([]byte, error) {
	if !u.IsStudent() || u.StudentID == nil || *u.StudentID == "" {
		return nil, web.NewRequestError(errors.New("qr codes exist for students only"), http.StatusBadRequest)
	}

	if size < 64 || size > 1024 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(*u.StudentID, qrcode.Medium, size)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "encoding qr code"), http.StatusInternalServerError)
	}

	return png, nil
}
