package app

// MockMailSender используется для тестов и локальной разработки.
type MockMailSender struct{}

func (m *MockMailSender) Send(to, subject, htmlBody string) error { return nil }
