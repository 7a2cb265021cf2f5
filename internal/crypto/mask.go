package crypto

// maskToken возвращается, когда номер слишком короткий для показа последних цифр
const maskToken = "****"

// MaskCardNumber возвращает маску номера карты в формате "**** **** **** 1234".
// Односторонняя трансформация для отображения, исходный номер по ней
// не восстанавливается.
func MaskCardNumber(fullNumber string) string {
	if len(fullNumber) < 4 {
		return maskToken
	}
	return "**** **** **** " + fullNumber[len(fullNumber)-4:]
}
