package services

import (
	"context"
	"strings"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"
	"booking-api/utils"

	"github.com/sirupsen/logrus"
)

// UserService define la interfaz del servicio
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, password string) error
	Delete(ctx context.Context, id string) (repositories.CascadeResult, error)
	List(ctx context.Context, filter dto.UserFilter) ([]dto.UserListItem, error)
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error)
}

// userService es la implementación real del servicio
// Tiene un repositorio para acceder a la base de datos
type userService struct {
	repo   repositories.UserRepository
	logger *logrus.Logger
}

// NewUserService crea una nueva instancia del servicio
func NewUserService(repo repositories.UserRepository, logger *logrus.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// Create crea un nuevo usuario
// Aquí va toda la lógica: unicidad de email y CPF, hashear password, defaults
func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	// 1. Verificar si el email ya existe
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	// 2. CPF opcional: validar checksum, formatear y verificar unicidad
	var cpf *string
	if req.CPF != "" {
		formatted, err := s.checkCPF(ctx, req.CPF)
		if err != nil {
			return nil, err
		}
		cpf = &formatted
	}

	// 3. Hashear la contraseña
	// NUNCA guardamos contraseñas en texto plano
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewInternal("error hashing password", err)
	}

	roles := domain.RolesFromStrings(req.Role)
	if len(roles) == 0 {
		roles = domain.Roles{domain.RoleGuest}
	}
	status := domain.UserStatus(strings.ToUpper(req.Status))
	if status == "" {
		status = domain.UserStatusActive
	}

	// 4. Crear el objeto User
	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword, // Guardamos el hash, no la contraseña
		Roles:    roles,
		Status:   status,
		Phone:    req.Phone,
		CPF:      cpf,
	}

	// 5. Guardar en la base de datos
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, wrap(err, "error creating user")
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "roles": user.Roles.Strings()}).Info("User created")
	return user, nil
}

// FindByID obtiene un usuario por su ID
// Esta función es simple, solo delega al repositorio
func (s *userService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "error loading user")
	}
	return user, nil
}

// Update actualiza los datos de un usuario existente.
// Solo se tocan los campos que vienen en el request.
func (s *userService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error) {
	// 1. Verificar que el usuario existe
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "error loading user")
	}

	// 2. Si se proporciona un nuevo email, verificar que no esté en uso
	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}

	// 3. Actualizar otros campos si se proporcionan
	setString(&user.Name, req.Name)
	setString(&user.Phone, req.Phone)
	setString(&user.Address, req.Address)
	setString(&user.AddressNumber, req.AddressNumber)
	setString(&user.Neighborhood, req.Neighborhood)
	setString(&user.PostalCode, req.PostalCode)
	setString(&user.City, req.City)
	setString(&user.AddressComplement, req.AddressComplement)
	setString(&user.State, req.State)
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if len(req.Role) > 0 {
		user.Roles = domain.RolesFromStrings(req.Role)
	}
	if req.Status != nil {
		user.Status = domain.UserStatus(strings.ToUpper(*req.Status))
	}

	// 4. Si se proporciona una nueva contraseña, hashearla
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, domain.NewInternal("error hashing password", err)
		}
		user.Password = hashedPassword
	}

	// 5. Guardar los cambios en la base de datos
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, wrap(err, "error updating user")
	}

	return user, nil
}

// UpdatePassword es el cambio de contraseña del propio usuario
func (s *userService) UpdatePassword(ctx context.Context, id, password string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return wrap(err, "error loading user")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return domain.NewInternal("error hashing password", err)
	}
	user.Password = hashedPassword

	return wrap(s.repo.Update(ctx, user), "error updating password")
}

// Delete elimina al usuario con todo lo que depende de él
func (s *userService) Delete(ctx context.Context, id string) (repositories.CascadeResult, error) {
	result, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return result, wrap(err, "error deleting user")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      id,
		"properties":   result.Properties,
		"reservations": result.Reservations,
		"reviews":      result.Reviews,
	}).Info("User deleted")
	return result, nil
}

// List obtiene los usuarios del sistema
// Solo accesible por administradores
func (s *userService) List(ctx context.Context, filter dto.UserFilter) ([]dto.UserListItem, error) {
	users, err := s.repo.List(ctx, filter.Search, filter.Status)
	if err != nil {
		return nil, wrap(err, "error listing users")
	}

	items := make([]dto.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserListItem(u))
	}
	return items, nil
}

// EnsureAdmin crea el administrador inicial si el email no existe.
// El bool indica si se creó.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return nil, false, wrap(err, "error loading user")
	}
	if password == "" {
		return nil, false, domain.NewValidation("admin password is required")
	}

	user, err := s.Create(ctx, dto.CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     []string{string(domain.RoleAdmin)},
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return domain.NewConflict("email already exists")
	}
	if domain.IsKind(err, domain.KindNotFound) {
		return nil
	}
	return wrap(err, "error checking email")
}

func (s *userService) checkCPF(ctx context.Context, raw string) (string, error) {
	if !utils.ValidateCPF(raw) {
		return "", domain.NewValidation("invalid CPF")
	}
	formatted := utils.FormatCPF(raw)

	_, err := s.repo.GetByCPF(ctx, formatted)
	if err == nil {
		return "", domain.NewConflict("CPF already registered")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return "", wrap(err, "error checking CPF")
	}
	return formatted, nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}
