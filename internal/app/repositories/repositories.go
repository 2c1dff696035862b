package repositories

// Repositories holds all the repository instances
type Repositories struct {
	DomainRepository   *DomainRepository
	StudentRepository  *StudentRepository
	AuthRepository     *AuthRepository
	DatabaseRepository *DatabaseRepository
}

// NewRepositories initializes all repositories over one backend client
func NewRepositories(client *BackendClient) *Repositories {
	return &Repositories{
		DomainRepository:   NewDomainRepository(client),
		StudentRepository:  NewStudentRepository(client),
		AuthRepository:     NewAuthRepository(client),
		DatabaseRepository: NewDatabaseRepository(client),
	}
}
