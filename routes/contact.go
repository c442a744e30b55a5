package routes

import (
	"fmt"
	"html"
	"os"

	"github.com/JavierManriquez/incluimap/utils"

	"github.com/kataras/iris/v12"
)

var contactSubjects = map[string]string{
	"sugerencia": "Sugerencia",
	"problema":   "Reporte de problema",
	"consulta":   "Consulta general",
	"otro":       "Otro",
}

// SendContactMessage relays the public contact form to the site operators.
// Delivery failures are reported to the caller, unlike the notification
// emails which are best effort.
func SendContactMessage(ctx iris.Context) {
	var input ContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	subject, ok := contactSubjects[input.Subject]
	if !ok {
		subject = contactSubjects["otro"]
	}

	recipient := os.Getenv("CONTACT_EMAIL")
	if recipient == "" {
		recipient = os.Getenv("EMAIL_FROM")
	}

	body := fmt.Sprintf(
		"<p><strong>Nombre:</strong> %s</p><p><strong>Email:</strong> %s</p><p>%s</p>",
		html.EscapeString(input.Name),
		html.EscapeString(input.Email),
		html.EscapeString(input.Message),
	)

	sent, err := utils.SendMail(recipient, "IncluiMap Contacto: "+subject, body)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "delivered": sent})
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=30"`
	Message string `json:"message" validate:"required,max=5000"`
}
