package logparser

import (
	"strings"

	"github.com/ginjaninja78/fuelstats/internal/types"
)

// prepayRecord is the indoor authorization half of a fuel sale. It waits in
// the reconciler until its finalization arrives.
type prepayRecord struct {
	header
	tag    prepayTag
	amount types.Cents
	tender types.Tender
	wash   *types.CarWashTransaction
}

// extractPrepay reads an indoor prepay: the (possibly re-authorized) tag, the
// prepaid amount on the next line, the tender after TOTAL DUE, and any wash
// on the receipt.
func (d *day) extractPrepay(c indoorPrepay) (prepayRecord, error) {
	p := prepayRecord{header: c.header, tag: d.recoverVoid(c)}

	amountLine := p.tag.line + 1
	l, ok := d.line(amountLine, p.end)
	if !ok {
		return p, truncated(p.header, "prepay amount")
	}
	am := prepayAmountPattern.FindStringSubmatch(l)
	if am == nil {
		return p, malformed(p.header, "prepay amount", amountLine, l)
	}
	amount, err := types.ParseCents(am[1], am[2])
	if err != nil {
		return p, malformed(p.header, "prepay amount", amountLine, l)
	}
	p.amount = amount

	total, ok := d.find(amountLine+1, p.end, totalDuePattern)
	if !ok {
		return p, truncated(p.header, "total due")
	}

	p.tender = d.indoorTender(p.header, total)

	p.wash = d.attachedWash(p.header)
	return p, nil
}

// recoverVoid looks for a *Void* between the prepay tag and TOTAL DUE. When
// one is found, the next prepay tag before TOTAL DUE replaces the voided one;
// the search repeats from there so only the last authorization survives.
// Without a replacement the original tag stands.
func (d *day) recoverVoid(c indoorPrepay) prepayTag {
	tag := c.tag
	for {
		voidLine := -1
		for n, l := range d.ix.Lines(tag.line+1, c.end) {
			if voidPattern.MatchString(l) {
				voidLine = n
				break
			}
			if totalDuePattern.MatchString(l) {
				return tag
			}
		}
		if voidLine < 0 {
			return tag
		}

		replaced := false
		for n, l := range d.ix.Lines(voidLine+1, c.end) {
			if pm := prepayTagPattern.FindStringSubmatch(l); pm != nil {
				next, ok := parsePrepayTag(n, pm)
				if !ok {
					break
				}
				d.log.Debug("transaction %s: prepay ref %s voided, re-authorized as ref %s at line %d",
					c.id, tag.reference, next.reference, n+1)
				tag, replaced = next, true
				break
			}
			if totalDuePattern.MatchString(l) {
				break
			}
		}
		if !replaced {
			d.log.Debug("transaction %s: prepay ref %s voided with no re-authorization", c.id, tag.reference)
			return tag
		}
	}
}

// indoorTender reads the tender following the TOTAL DUE line at total.
// BALANCE DUE right after it means cash; otherwise the leading word of the
// line after that is the tender label, defaulting to cash. A receipt that
// ends at or just after TOTAL DUE is a cash sale.
func (d *day) indoorTender(h header, total int) types.Tender {
	next, ok := d.line(total+1, h.end)
	if !ok {
		return types.Cash
	}
	if balanceDuePattern.MatchString(next) {
		return types.Cash
	}

	tl, ok := d.line(total+2, h.end)
	if !ok {
		d.report(Diagnostic{
			Severity: SeverityInfo,
			Kind:     KindTenderDefaulted,
			Line:     total + 1,
			TxnID:    h.id,
			Message:  "receipt ends before a tender label, assuming Cash",
		})
		return types.Cash
	}
	tm := indoorTenderPattern.FindStringSubmatch(tl)
	if tm == nil {
		d.report(Diagnostic{
			Severity: SeverityInfo,
			Kind:     KindTenderDefaulted,
			Line:     total + 3,
			TxnID:    h.id,
			Message:  "no tender label after TOTAL DUE, assuming Cash",
		})
		return types.Cash
	}

	label := tm[1]
	for _, known := range []types.Tender{types.Cash, types.Credit, types.Debit} {
		if strings.EqualFold(label, string(known)) {
			return known
		}
	}
	d.report(Diagnostic{
		Severity: SeverityInfo,
		Kind:     KindUnknownTender,
		Line:     total + 3,
		TxnID:    h.id,
		Message:  "unrecognized tender label " + label,
	})
	return types.Tender(label)
}
