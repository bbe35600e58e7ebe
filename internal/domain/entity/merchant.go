package entity

// Merchant holds the shop's fiscal identity, sent to the upstream API with
// every issued receipt.
type Merchant struct {
	PartitaIVA     string `json:"partita_iva"`
	CodiceFiscale  string `json:"codice_fiscale"`
	RagioneSociale string `json:"ragione_sociale"`
	Indirizzo      string `json:"indirizzo"`
}

// FiscalID returns the identifier used as fiscal_id upstream: the codice
// fiscale when present, otherwise the partita IVA.
func (m Merchant) FiscalID() string {
	if m.CodiceFiscale != "" {
		return m.CodiceFiscale
	}
	return m.PartitaIVA
}

// HasFiscalID reports whether at least one fiscal identifier is set.
func (m Merchant) HasFiscalID() bool {
	return m.PartitaIVA != "" || m.CodiceFiscale != ""
}
