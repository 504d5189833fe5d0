/*
receipt.go - Plain-text receipt rendering

Renders the 1U parking receipt for a ticket and its fee breakdown. The
layout is fixed-width ASCII suitable for a thermal printer; volatile
fields are derived only from the ticket so output is deterministic.
*/
package ticket

import (
	"fmt"
	"strings"

	"github.com/warp/parking-engine/tariff"
)

// RenderReceipt renders a human-readable receipt for a ticket. The fee is
// expected to come from Ticket.Fee so the breakdown always reflects the
// stored ticket fields.
func RenderReceipt(t Ticket, fee tariff.FeeBreakdown) string {
	lines := []string{
		"==============================================",
		"             1U PARKING RECEIPT               ",
		"==============================================",
		fmt.Sprintf("Receipt ID       : RCP-%s", ticketRef(t)),
		fmt.Sprintf("Ticket ID        : T-%s", ticketRef(t)),
		"",
		"----------------------------------------------",
		"Customer / Ticket",
		"----------------------------------------------",
		"Ticket Type        : PAPER TICKET",
		fmt.Sprintf("Membership Tier    : %s", orNA(string(t.MemberTier))),
		"",
		"----------------------------------------------",
		"Parking Details",
		"----------------------------------------------",
		fmt.Sprintf("Zone               : %s", orNA(string(t.Zone))),
		fmt.Sprintf("Day Type           : %s", orNA(string(t.DayType))),
		fmt.Sprintf("Entry Date/Time    : %s", orNA(t.EntryTime)),
		fmt.Sprintf("Exit  Date/Time    : %s", exitDisplay(t)),
		fmt.Sprintf("Duration           : %s", durationDisplay(t.DurationMinutes)),
		"",
		"----------------------------------------------",
		"Charges Breakdown",
		"----------------------------------------------",
		fmt.Sprintf("Time Charge            : $%s", fee.TimeCharge.StringFixed(2)),
		fmt.Sprintf("Free Hours (Tier Perk) : %s", freeHoursDisplay(fee.MemberFreeMinutes)),
		fmt.Sprintf("Validation             : %s", validationDisplay(fee.ValidationHours)),
		"----------------------------------------------",
		fmt.Sprintf("TOTAL DUE              : $%s", fee.Total.StringFixed(2)),
		fmt.Sprintf("AMOUNT PAID            : $%s", fee.Total.StringFixed(2)),
		"----------------------------------------------",
		"Thank you for visiting 1U Shopping Centre!",
		"For assistance, contact support@1uparking.my",
		"==============================================",
	}
	return strings.Join(lines, "\n")
}

func ticketRef(t Ticket) string {
	if t.ID == 0 {
		return "XXXXXX"
	}
	return fmt.Sprintf("%d", t.ID)
}

func exitDisplay(t Ticket) string {
	if t.LostTicket {
		return "LOST TICKET"
	}
	return orNA(t.ExitTime)
}

func durationDisplay(minutes *int) string {
	if minutes == nil {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", *minutes/60, *minutes%60)
}

func freeHoursDisplay(memberFreeMinutes int) string {
	if memberFreeMinutes <= 0 {
		return "NONE"
	}
	return fmt.Sprintf("%dh", memberFreeMinutes/60)
}

func validationDisplay(validationHours int) string {
	if validationHours <= 0 {
		return "NONE"
	}
	return fmt.Sprintf("%d FREE HOURS", validationHours)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
