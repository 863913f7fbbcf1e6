// Package common - erros padronizados e códigos de status compartilhados
// entre handlers, serviços e a camada de persistência.
package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

const (
	MsgSuccess = "Operação realizada com sucesso"

	MsgBadRequest      = "Requisição inválida"
	MsgNotFound        = "Recurso não encontrado"
	MsgConflict        = "Conflito de dados"
	MsgInternalError   = "Erro interno do sistema"
	MsgValidationError = "Dados inválidos"
	MsgInvalidFormat   = "Formato de dados inválido"
	MsgDatabaseError   = "Erro de acesso ao banco de dados"
)

// ErrorCode classifica o erro por categoria (SYS, VAL, DB, BIZ).
type ErrorCode struct {
	Code        string
	Category    string
	Description string
}

var (
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", Description: "Erro interno do sistema"}

	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", Description: "Dados de entrada inválidos"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", Description: "Formato de dados inválido"}

	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", Description: "Erro geral de banco"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", Description: "Erro de conexão com o banco"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", Description: "Erro de consulta"}

	ErrCodeBusiness = ErrorCode{Code: "BIZ_001", Category: "Business", Description: "Erro de regra de negócio"}
)

// Error é o erro estruturado devolvido pela API.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

func (e *Error) Error() string {
	return e.Message
}

// Is compara por código + mensagem, para uso com errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError monta um erro estruturado completo.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{Code: code, Message: message, StatusCode: statusCode, Details: details}
}

var (
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dados de entrada inválidos", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Formato de dados inválido", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Campo obrigatório ausente", StatusBadRequest, nil)

	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Dados não encontrados", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Registro já existe", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Erro de conexão com o banco de dados", StatusServiceUnavailable, nil)

	ErrNoData = NewError(ErrCodeBusiness, "Nenhum dado de vendas carregado", StatusNotFound, nil)
)

// ConvertMongoError traduz erros do driver para os erros do sistema.
// ErrNotFound passa inalterado.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return ErrConnection
	}
	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
