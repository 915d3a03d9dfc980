package models

// RegistrationMember — одна строка состава в заявке.
type RegistrationMember struct {
	Nickname string `json:"nickname"`
	GameID   string `json:"gameId"`
}

// RegistrationInput — заявка на регистрацию команды: название, опциональный
// логотип и ровно пять участников.
type RegistrationInput struct {
	TeamName string               `json:"teamName"`
	LogoURL  string               `json:"logoUrl,omitempty"`
	Members  []RegistrationMember `json:"members"`
}

// RegistrationResult — структурированный исход регистрации. Бизнес-отказы
// (окно, дубликаты) не являются ошибками уровня HTTP: вызывающая сторона
// смотрит только на флаг Success.
type RegistrationResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	TeamNumber int    `json:"teamNumber,omitempty"`
}
