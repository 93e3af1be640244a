package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rentmate/internal/models"
)

func flat9() models.Room {
	return models.Room{
		Name:        "Flat 9",
		MonthlyRent: 9000,
		Roommates: []models.Roommate{
			{ID: "a", Name: "Alice", Mobile: "9876543210", WaterPaid: 500},
			{ID: "b", Name: "Bob", Mobile: "9876543211"},
		},
	}
}

func TestMessage(t *testing.T) {
	msg := Message(flat9(), "Mar", 2025)

	assert.True(t, strings.HasPrefix(msg, "🏠 Flat 9 - Mar 2025 Rent"))
	assert.Contains(t, msg, "💰 Total Rent: ₹9000.00")
	assert.Contains(t, msg, "👥 Total Members: 2")
	assert.Contains(t, msg, "📊 Rent per person: ₹4500.00")
	assert.Contains(t, msg, "1. Alice (+919876543210)")
	assert.Contains(t, msg, "💧 Water Bill: -₹500.00")
	assert.Contains(t, msg, "💳 Final Amount: ₹4000.00")
	assert.Contains(t, msg, "2. Bob (+919876543211)")

	// Bob paid nothing: his section carries no bill lines at all.
	bob := msg[strings.Index(msg, "2. Bob"):]
	assert.NotContains(t, bob, "Water Bill")
	assert.NotContains(t, bob, "EB Bill")
	assert.NotContains(t, bob, "Other Bill")
	assert.Contains(t, bob, "💳 Final Amount: ₹4500.00")
}

func TestMessageNegativeFinalAmount(t *testing.T) {
	room := flat9()
	room.Roommates[0].WaterPaid = 5000
	msg := Message(room, "Mar", 2025)
	assert.Contains(t, msg, "💳 Final Amount: ₹-500.00")
}

func TestSMSURI(t *testing.T) {
	uri := SMSURI(flat9(), "Rent due: ₹4500.00 & more")

	assert.True(t, strings.HasPrefix(uri, "sms:9876543210,9876543211?body="))
	body := uri[strings.Index(uri, "body=")+len("body="):]
	assert.NotContains(t, body, " ", "body must be URI-escaped")
	assert.NotContains(t, body, "+", "spaces must be %20, not +")
	assert.NotContains(t, body, "&")
	assert.Contains(t, body, "%20")
}

func TestVCard(t *testing.T) {
	got := VCard(models.Roommate{Name: "Alice", Mobile: "9876543210"}, "Flat 9")
	want := "BEGIN:VCARD\n" +
		"VERSION:3.0\n" +
		"FN:Alice\n" +
		"TEL;TYPE=MOBILE:+919876543210\n" +
		"NOTE:Roommate at Flat 9\n" +
		"END:VCARD"
	assert.Equal(t, want, got)
}

func TestHTMLDocument(t *testing.T) {
	rec := models.MonthlyRecord{
		ID:    "r1",
		Month: "March",
		Year:  2025,
		Room:  flat9(),
		Calculations: []models.Calculation{
			{RoommateID: "a", Name: "Alice", BaseRent: 4500, WaterBill: 500, FinalAmount: 4000},
			{RoommateID: "b", Name: "Bob", BaseRent: 4500, FinalAmount: -120.5},
		},
	}

	html, err := HTMLDocument(rec)
	require.NoError(t, err)

	assert.Contains(t, html, "Monthly Rent Calculation - March 2025")
	assert.Contains(t, html, "₹9000.00")
	assert.Contains(t, html, "₹4500.00")
	assert.Contains(t, html, "-₹500.00")
	assert.Contains(t, html, `class="negative"`, "negative final amount gets the negative class")

	// Bob has no bills: exactly one deduction row in the whole document.
	assert.Equal(t, 1, strings.Count(html, `class="deduction"`))
}

func TestHTMLDocumentEscapesNames(t *testing.T) {
	rec := models.MonthlyRecord{
		Month: "March",
		Year:  2025,
		Room:  models.Room{Name: "<script>alert(1)</script>", MonthlyRent: 100},
	}
	html, err := HTMLDocument(rec)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
