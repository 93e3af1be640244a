// Package export renders core settlement data into the shareable formats the
// app offers: plain-text message, SMS deep link, vCard, and a printable HTML
// document. Every function is pure.
//
// Money is rendered at exactly 2 decimal places, and a bill line appears in
// output only when its accumulator is strictly greater than 0.
package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmynk/rentmate/internal/calculator"
	"github.com/mmynk/rentmate/internal/models"
)

// countryPrefix is prepended to every mobile number in renders.
const countryPrefix = "+91"

// Message builds the plain-text rent summary for the given month label
// (e.g. "Mar") and year.
func Message(room models.Room, monthLabel string, year int) string {
	base := calculator.BaseRentPerPerson(&room)

	var b strings.Builder
	fmt.Fprintf(&b, "🏠 %s - %s %d Rent\n\n", room.Name, monthLabel, year)
	fmt.Fprintf(&b, "💰 Total Rent: ₹%.2f\n", room.MonthlyRent)
	fmt.Fprintf(&b, "👥 Total Members: %d\n", len(room.Roommates))
	fmt.Fprintf(&b, "📊 Rent per person: ₹%.2f\n\n", base)
	b.WriteString("📋 Individual Calculations:\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")

	for i := range room.Roommates {
		rm := &room.Roommates[i]
		fmt.Fprintf(&b, "%d. %s (%s%s)\n", i+1, rm.Name, countryPrefix, rm.Mobile)
		fmt.Fprintf(&b, "   Base Rent: ₹%.2f\n", base)
		if rm.WaterPaid > 0 {
			fmt.Fprintf(&b, "   💧 Water Bill: -₹%.2f\n", rm.WaterPaid)
		}
		if rm.EBPaid > 0 {
			fmt.Fprintf(&b, "   ⚡ EB Bill: -₹%.2f\n", rm.EBPaid)
		}
		if rm.OtherPaid > 0 {
			fmt.Fprintf(&b, "   🧾 Other Bill: -₹%.2f\n", rm.OtherPaid)
		}
		fmt.Fprintf(&b, "   💳 Final Amount: ₹%.2f\n\n", calculator.FinalAmount(&room, rm))
	}

	b.WriteString("📱 Calculated via Rentmate")
	return b.String()
}

// SMSURI builds an sms: deep link addressed to every roommate with the given
// body preloaded. Opening it hands the message to the device's SMS app.
func SMSURI(room models.Room, body string) string {
	mobiles := make([]string, 0, len(room.Roommates))
	for _, rm := range room.Roommates {
		mobiles = append(mobiles, rm.Mobile)
	}
	// QueryEscape encodes space as "+", which SMS apps render literally.
	escaped := strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
	return "sms:" + strings.Join(mobiles, ",") + "?body=" + escaped
}

// VCard renders a version 3.0 vCard for one roommate, suitable for download
// as a .vcf contact file.
func VCard(rm models.Roommate, roomName string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	fmt.Fprintf(&b, "FN:%s\n", rm.Name)
	fmt.Fprintf(&b, "TEL;TYPE=MOBILE:%s%s\n", countryPrefix, rm.Mobile)
	fmt.Fprintf(&b, "NOTE:Roommate at %s\n", roomName)
	b.WriteString("END:VCARD")
	return b.String()
}
