package helper

import "github.com/gofiber/fiber/v2"

// FromFiberError dipasang sebagai ErrorHandler aplikasi: controller boleh
// mengembalikan *fiber.Error (NewError) dan tetap keluar dalam envelope
// JSON yang sama dengan helper.Error. Error lain jatuh ke 500 dengan
// pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return Error(c, fe.Code, fe.Message)
	}
	return Error(c, fiber.StatusInternalServerError, err.Error())
}
