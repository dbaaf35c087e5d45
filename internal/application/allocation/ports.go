package allocation

import (
	"context"

	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de lotes atado a esa tx. Garantiza que el commit de un plan de
// asignación sea todo-o-nada: si una línea falla, ninguna se aplica.
type TxRunner interface {
	Run(ctx context.Context, fn func(batchRepo repository.BatchRepository) error) error
}
