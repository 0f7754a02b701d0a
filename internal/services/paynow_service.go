package services

import (
	"fmt"
	"strings"

	"smokey-backend/internal/models"
)

// PayNowService builds SGQR payloads for PayNow transfers following the
// EMVCo merchant-presented QR format
type PayNowService struct {
	uen       string
	recipient string
}

// NewPayNowService creates a new PayNow service
func NewPayNowService(uen, recipient string) *PayNowService {
	return &PayNowService{uen: uen, recipient: recipient}
}

// BuildQR returns the QR details for a payment of the given amount tagged
// with the given reference
func (s *PayNowService) BuildQR(amount float64, reference string) *models.PayNowDetails {
	return &models.PayNowDetails{
		Payload:   s.buildPayload(amount, reference),
		UEN:       s.uen,
		Recipient: s.recipient,
		Reference: reference,
		Amount:    amount,
	}
}

func (s *PayNowService) buildPayload(amount float64, reference string) string {
	// Merchant account template: PayNow scheme, proxy type 2 (UEN),
	// amount not editable by the payer
	merchant := emvField("00", "SG.PAYNOW") +
		emvField("01", "2") +
		emvField("02", s.uen) +
		emvField("03", "0")

	var b strings.Builder
	b.WriteString(emvField("00", "01")) // payload format indicator
	b.WriteString(emvField("01", "12")) // dynamic QR
	b.WriteString(emvField("26", merchant))
	b.WriteString(emvField("52", "0000")) // merchant category code
	b.WriteString(emvField("53", "702"))  // SGD
	b.WriteString(emvField("54", fmt.Sprintf("%.2f", amount)))
	b.WriteString(emvField("58", "SG"))
	b.WriteString(emvField("59", truncateEMV(s.recipient, 25)))
	b.WriteString(emvField("60", "Singapore"))
	if reference != "" {
		b.WriteString(emvField("62", emvField("01", truncateEMV(reference, 25))))
	}

	// CRC is computed over the payload including its own tag and length
	payload := b.String() + "6304"
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func truncateEMV(value string, maxLen int) string {
	if len(value) > maxLen {
		return value[:maxLen]
	}
	return value
}

// crc16CCITT computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF)
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
