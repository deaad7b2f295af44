package api

import (
	"fmt"
	"net/http"
	"time"
)

// dateLayout is the wire format for date query parameters.
const dateLayout = "2006-01-02"

// parseDateParam reads an optional YYYY-MM-DD query parameter. A missing
// parameter yields the zero time with no error.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	return t, nil
}

// parseDateRange reads the optional startDate and endDate parameters.
func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	start, err = parseDateParam(r, "startDate")
	if err != nil {
		return
	}
	end, err = parseDateParam(r, "endDate")
	return
}
