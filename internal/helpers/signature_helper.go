package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// QR payloads are plain text with an HMAC trailer so a door scanner can
// trust ids scanned off a phone screen without a server round trip first.
//
//	ticket:    "order:<uuid>;tier:<uuid>;email:<email>;sig:<hex>"
//	guestlist: "guestlist:<uuid>;sig:<hex>"

func sign(secret string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(mac.Sum(nil))
}

func EncodeTicketQR(orderID, tierID uuid.UUID, customerEmail, secret string) string {
	sig := sign(secret, orderID.String(), tierID.String(), customerEmail)
	return fmt.Sprintf("order:%s;tier:%s;email:%s;sig:%s", orderID, tierID, customerEmail, sig)
}

func DecodeTicketQR(payload, secret string) (orderID, tierID uuid.UUID, customerEmail string, err error) {
	fields, err := splitPayload(payload, "order", "tier", "email", "sig")
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}
	orderID, err = uuid.Parse(fields["order"])
	if err != nil {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid order id in QR payload")
	}
	tierID, err = uuid.Parse(fields["tier"])
	if err != nil {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid tier id in QR payload")
	}
	customerEmail = fields["email"]
	expected := sign(secret, orderID.String(), tierID.String(), customerEmail)
	if !hmac.Equal([]byte(expected), []byte(fields["sig"])) {
		return uuid.Nil, uuid.Nil, "", fmt.Errorf("invalid QR signature")
	}
	return orderID, tierID, customerEmail, nil
}

func EncodeGuestlistQR(passID uuid.UUID, secret string) string {
	return fmt.Sprintf("guestlist:%s;sig:%s", passID, sign(secret, passID.String()))
}

func DecodeGuestlistQR(payload, secret string) (uuid.UUID, error) {
	fields, err := splitPayload(payload, "guestlist", "sig")
	if err != nil {
		return uuid.Nil, err
	}
	passID, err := uuid.Parse(fields["guestlist"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid guestlist id in QR payload")
	}
	if !hmac.Equal([]byte(sign(secret, passID.String())), []byte(fields["sig"])) {
		return uuid.Nil, fmt.Errorf("invalid QR signature")
	}
	return passID, nil
}

func splitPayload(payload string, keys ...string) (map[string]string, error) {
	parts := strings.Split(payload, ";")
	if len(parts) != len(keys) {
		return nil, fmt.Errorf("invalid QR payload format")
	}
	fields := make(map[string]string, len(keys))
	for i, key := range keys {
		prefix := key + ":"
		if !strings.HasPrefix(parts[i], prefix) {
			return nil, fmt.Errorf("invalid QR payload format")
		}
		fields[key] = strings.TrimPrefix(parts[i], prefix)
	}
	return fields, nil
}
