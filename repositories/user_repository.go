package repositories

import (
	"context"
	"strings"

	"booking-api/domain"

	"gorm.io/gorm"
)

// UserRepository define la interfaz del repositorio
// Es como un "contrato" que dice qué operaciones debe tener
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	DeleteCascade(ctx context.Context, id string) (CascadeResult, error)
	List(ctx context.Context, search, status string) ([]domain.User, error)
}

// userRepository es la implementación real del repositorio
// Tiene una conexión a la base de datos (db)
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository crea una nueva instancia del repositorio
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserta un nuevo usuario en la base de datos
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID busca un usuario por su ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

// GetByEmail busca un usuario por su email (se usa en el login y en el registro)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

// GetByCPF busca por CPF ya formateado
func (r *userRepository) GetByCPF(ctx context.Context, cpf string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

// Update actualiza un usuario existente
// GORM hace UPDATE de todos los campos
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteCascade borra al usuario y todo lo que depende de él en una sola transacción:
// sus propiedades (con su árbol completo), sus reservas como huésped con las
// reviews asociadas, las reviews que escribió y finalmente la fila del usuario.
func (r *userRepository) DeleteCascade(ctx context.Context, id string) (CascadeResult, error) {
	var result CascadeResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Select("id").Where("id = ?", id).First(&user).Error; err != nil {
			return notFoundOr(err, "user not found")
		}

		var hosted []string
		if err := tx.Model(&domain.Property{}).Where("host_id = ?", id).Pluck("id", &hosted).Error; err != nil {
			return err
		}
		tree, err := deletePropertyTree(tx, hosted)
		if err != nil {
			return err
		}
		result.add(tree)

		guestReservations := tx.Model(&domain.Reservation{}).Select("id").Where("guest_id = ?", id)
		res := tx.Where("reservation_id IN (?)", guestReservations).Delete(&domain.Review{})
		if res.Error != nil {
			return res.Error
		}
		result.Reviews += res.RowsAffected

		res = tx.Where("guest_id = ?", id).Delete(&domain.Reservation{})
		if res.Error != nil {
			return res.Error
		}
		result.Reservations += res.RowsAffected

		res = tx.Where("author_id = ?", id).Delete(&domain.Review{})
		if res.Error != nil {
			return res.Error
		}
		result.Reviews += res.RowsAffected

		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
	if err != nil {
		return CascadeResult{}, err
	}

	return result, nil
}

// List filtra por nombre/email (substring, sin importar mayúsculas) y por status exacto
func (r *userRepository) List(ctx context.Context, search, status string) ([]domain.User, error) {
	query := r.db.WithContext(ctx).Model(&domain.User{})

	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var users []domain.User
	err := query.Order("created_at ASC").Find(&users).Error
	return users, err
}
