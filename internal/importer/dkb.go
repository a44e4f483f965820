package importer

// DKB giro exports: four lines of account metadata, then a quoted,
// semicolon-separated table with German headers.
const (
	dkbDelimiter = ';'
	dkbSkipLines = 4
)

// DKBLayout returns the layout of a DKB giro account CSV export.
func DKBLayout() Layout {
	return Layout{
		Name:      "dkb",
		Delimiter: dkbDelimiter,
		SkipLines: dkbSkipLines,
		Columns: Columns{
			BookingDate: "Buchungsdatum",
			ValueDate:   "Wertstellung",
			Status:      "Status",
			Payer:       "Zahlungspflichtige*r",
			Recipient:   "Zahlungsempfänger*in",
			Purpose:     "Verwendungszweck",
			Type:        "Umsatztyp",
			IBAN:        "IBAN",
			Amount:      "Betrag (€)",
			CreditorID:  "Gläubiger-ID",
			MandateRef:  "Mandatsreferenz",
			CustomerRef: "Kundenreferenz",
		},
	}
}
