package entity

import "time"

// Warehouse representa un almacén de la feria.
type Warehouse struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
