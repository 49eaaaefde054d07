package resources

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// EstimateEOSB computes the display-only end-of-service gratuity shown in the
// settlement form before submission: 21 days of basic pay per year of service
// for the first five years, 30 days per year beyond, pro-rated by day. The
// authoritative amount always comes back from the server; this figure only
// gives the operator an order of magnitude while filling the form.
func EstimateEOSB(hireDate, terminationDate, basicSalary string) (string, error) {
	hired, err := time.Parse(dateLayout, hireDate)
	if err != nil {
		return "", fmt.Errorf("hire date: %w", err)
	}
	ended, err := time.Parse(dateLayout, terminationDate)
	if err != nil {
		return "", fmt.Errorf("termination date: %w", err)
	}
	if ended.Before(hired) {
		return "", errors.New("termination date precedes hire date")
	}
	salary, err := strconv.ParseFloat(basicSalary, 64)
	if err != nil || salary < 0 {
		return "", errors.New("basic salary must be a non-negative number")
	}

	years := ended.Sub(hired).Hours() / 24 / 365
	dailyWage := salary * 12 / 365

	var days float64
	if years <= 5 {
		days = 21 * years
	} else {
		days = 21*5 + 30*(years-5)
	}
	return strconv.FormatFloat(days*dailyWage, 'f', 2, 64), nil
}
