package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"techpulse/internal/dataprocessing"
	apierrors "techpulse/internal/errors"
)

// parseFilter extracts the dataset filter from the request query
// parameters. Unknown parameters are ignored.
func parseFilter(r *http.Request) (dataprocessing.Filter, *apierrors.APIError) {
	query := r.URL.Query()

	filter := dataprocessing.Filter{
		Companies:  splitParam(query.Get("companies")),
		Industries: splitParam(query.Get("industries")),
	}

	years, err := splitIntParam(query.Get("years"))
	if err != nil {
		return dataprocessing.Filter{}, apierrors.ErrValidation("years",
			"Years must be a comma-separated list of numbers")
	}
	filter.Years = years

	months, err := splitIntParam(query.Get("months"))
	if err != nil {
		return dataprocessing.Filter{}, apierrors.ErrValidation("months",
			"Months must be a comma-separated list of numbers")
	}
	for _, m := range months {
		if m < 1 || m > 12 {
			return dataprocessing.Filter{}, apierrors.ErrValidation("months",
				fmt.Sprintf("Month %d is out of range 1-12", m))
		}
	}
	filter.Months = months

	return filter, nil
}

// splitParam splits a comma-separated parameter into trimmed, non-empty
// values.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func splitIntParam(raw string) ([]int, error) {
	var values []int
	for _, part := range splitParam(raw) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	return values, nil
}
