package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse wraps handler payloads in the standard envelope.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"message": message,
		"data":    data,
	}
}

func ErrorResponse(message string) fiber.Map {
	return fiber.Map{
		"message": message,
	}
}
