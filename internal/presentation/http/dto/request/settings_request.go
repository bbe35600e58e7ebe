package request

// UpdateSettingsRequest represents the save-configuration request
type UpdateSettingsRequest struct {
	Token          string `json:"token" binding:"required"`
	Environment    string `json:"environment"`
	PartitaIVA     string `json:"partita_iva"`
	CodiceFiscale  string `json:"codice_fiscale"`
	RagioneSociale string `json:"ragione_sociale"`
	Indirizzo      string `json:"indirizzo"`
}
