package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - это ключ, по которому мы будем хранить *gorm.DB в context
const DBContextKey = contextKey("db")

// CurrentUserKey - ключ, по которому guard кладет аутентифицированного
// пользователя (без хеша пароля) в gin.Context
const CurrentUserKey = "currentUser"
