package dto

// ScanInput carries the raw payload read by the leader's QR scanner.
type ScanInput struct {
	QRData string `json:"qr_data" binding:"required"`
}
