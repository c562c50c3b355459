package domain

// Email is one raw freight-forwarding email to extract from.
type Email struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dangerous-goods mention states reported by the extraction oracle.
const (
	DGMentionYes          = "YES"
	DGMentionNo           = "NO"
	DGMentionNotMentioned = "NOT_MENTIONED"
)

// DraftExtraction is the oracle's best-effort structured draft for one
// email. Every field is free text as written in the source; all fields
// may be empty. Deterministic post-processing turns this into a
// ShipmentRecord.
type DraftExtraction struct {
	OriginPort              string `json:"origin_port"`
	DestinationPort         string `json:"destination_port"`
	Incoterm                string `json:"incoterm"`
	CargoWeightText         string `json:"cargo_weight_text"`
	CargoCBMText            string `json:"cargo_cbm_text"`
	DangerousGoodsMentioned string `json:"dangerous_goods_mentioned"`
	IsImportToIndia         bool   `json:"is_import_to_india"`
	IsExportFromIndia       bool   `json:"is_export_from_india"`
}
