package logparser

import "regexp"

// Line patterns of the terminal journal. All are anchored at the start of
// the line; lines are matched with their end-of-line characters removed, so
// a pattern that must be followed by whitespace accepts end of line as well.
var (
	// CUSTOMER TRANSACTION 123456 Finalized
	markerPattern = regexp.MustCompile(`^CUSTOMER\sTRANSACTION\s+([0-9]+)\s+Finalized`)

	// 03/02/15 08:15:00
	dateTimePattern = regexp.MustCompile(`^([0-9]+)/([0-9]+)/([0-9]+)\s+([0-9]+):([0-9]+):([0-9]+)`)

	// Outdoor tmnl: 3
	locationPattern = regexp.MustCompile(`^(Indoor|Outdoor)\s+tmnl\s*:\s+([0-9]+)`)

	// User Session: 6064
	sessionPattern = regexp.MustCompile(`^User\s+Session:\s+[0-9]+`)

	// Fuel Prepay Ref#2740063 Pump 2
	prepayTagPattern = regexp.MustCompile(`^Fuel\s+Prepay\s+Ref#([0-9]+)\s+Pump\s+([0-9]+)`)

	// Original Fuel Prepay Ref#2740063
	finalTagPattern = regexp.MustCompile(`^Original\s+Fuel\s+Prepay\s+Ref#([0-9]+)`)

	// FUEL PREPAY 20.00
	prepayAmountPattern = regexp.MustCompile(`^FUEL\s+PREPAY\s+([0-9]+)\.([0-9]+)`)

	totalDuePattern   = regexp.MustCompile(`^TOTAL\s+DUE\s+[0-9]+\.[0-9]+`)
	balanceDuePattern = regexp.MustCompile(`^BALANCE\s+DUE\s+[0-9]+\.[0-9]+`)

	// Cash                 18.41
	indoorTenderPattern = regexp.MustCompile(`^(\w+)(\s|$)`)

	//     UNLEADED PUR       52.50
	fuelTypePattern = regexp.MustCompile(`^\s+(PLUS|UNLEADED|SUPREME)\s+PURE?\s+([0-9]+)\.([0-9]+)`)

	//     Vol     12.592@     4.169
	volumePattern = regexp.MustCompile(`^\s+Vol\s+([0-9]+)\.([0-9]+)@\s+([0-9]+)\.([0-9]+)`)

	// Debit Card           33.69
	cardTenderPattern = regexp.MustCompile(`^(Credit|Debit)\s+Card\s+[0-9]+.[0-9]+`)

	voidPattern = regexp.MustCompile(`^\s+\*Void\*(\s|$)`)

	//     CAR WASH DEL        8.00
	//     CAR WASH - W       -5.00
	carWashPattern = regexp.MustCompile(`^\s+CAR\s+WASH\s+(SUP|DEL|-\s+W)\s+(-)?([0-9]+)\.([0-9]+)`)
)
