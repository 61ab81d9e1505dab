package i18n

// DefaultMessages returns the built-in catalogs. JSON files loaded with
// LoadDir override individual keys.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleES: esMessages,
		LocaleEN: enMessages,
	}
}

var esMessages = map[string]string{
	"error.not_found":         "No se encontró el recurso solicitado.",
	"error.bad_request":       "Solicitud inválida.",
	"error.internal":          "Error interno del servidor.",
	"error.too_many_requests": "Demasiadas solicitudes. Inténtalo de nuevo más tarde.",
	"error.validation":        "Datos de entrada inválidos.",

	"auth.token_missing": "No autorizado: Token no proporcionado.",
	"auth.token_invalid": "No autorizado: Token inválido o expirado.",
	"auth.forbidden":     "Prohibido: No tienes permisos para esta operación.",

	"content.id_required": "Se requiere el ID.",

	"gallery.file_required": "No se proporcionó ningún archivo de imagen.",

	"shortlink.invalid_url": "La URL proporcionada no es válida.",
	"shortlink.blocked_url": "No se puede acortar una URL de este dominio.",
	"shortlink.exhausted":   "No se pudo generar una clave única. Inténtalo de nuevo.",
	"shortlink.not_found":   "El enlace corto no existe.",

	"rate_limit.exceeded": "Límite de solicitudes excedido. Inténtalo de nuevo en %d segundos.",
}

var enMessages = map[string]string{
	"error.not_found":         "The requested resource was not found.",
	"error.bad_request":       "Invalid request.",
	"error.internal":          "Internal server error.",
	"error.too_many_requests": "Too many requests. Please try again later.",
	"error.validation":        "Invalid input.",

	"auth.token_missing": "Unauthorized: No token provided.",
	"auth.token_invalid": "Unauthorized: Invalid or expired token.",
	"auth.forbidden":     "Forbidden: You do not have permission for this operation.",

	"content.id_required": "An ID is required.",

	"gallery.file_required": "No image file provided.",

	"shortlink.invalid_url": "The provided URL is not valid.",
	"shortlink.blocked_url": "URLs on this domain cannot be shortened.",
	"shortlink.exhausted":   "Could not generate a unique key. Please try again.",
	"shortlink.not_found":   "Short link not found.",

	"rate_limit.exceeded": "Rate limit exceeded. Try again in %d seconds.",
}
