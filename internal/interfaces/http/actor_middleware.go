package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/bmvdigital/pos-feria-2026/internal/domain/entity"
)

// Headers de atribución del actor.
const (
	HeaderActorRole = "X-Actor-Role"
	HeaderActorName = "X-Actor-Name"
)

// LocalActor key de c.Locals con el entity.Actor de la petición.
const LocalActor = "actor"

// ActorMiddleware lee X-Actor-Role y X-Actor-Name y deja el actor en c.Locals.
// Sin headers el actor es Sistema; los permisos se resuelven en los casos de uso.
// Los valores se copian: el actor queda en bitácora y ventas más allá de la petición.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := utils.CopyString(c.Get(HeaderActorRole))
		name := utils.CopyString(c.Get(HeaderActorName))
		c.Locals(LocalActor, entity.NewActor(role, name))
		return c.Next()
	}
}

// idParam copia el parámetro :id fuera del buffer de fasthttp.
func idParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

// GetActor devuelve el actor del contexto (después de ActorMiddleware).
func GetActor(c *fiber.Ctx) entity.Actor {
	if a, ok := c.Locals(LocalActor).(entity.Actor); ok {
		return a
	}
	return entity.SystemActor
}
