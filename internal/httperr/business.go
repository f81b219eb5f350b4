package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ======================================================
// Códigos de negócio → status HTTP + mensagem
// ======================================================

type businessInfo struct {
	status  int
	message string
}

var businessCodes = map[string]businessInfo{
	"invalid_credentials":         {http.StatusUnauthorized, "Credenciais inválidas"},
	"session_not_found":           {http.StatusUnauthorized, "Sessão expirada."},
	"email_already_exists":        {http.StatusConflict, "E-mail já cadastrado."},
	"account_creation_failed":     {http.StatusInternalServerError, "Erro ao criar conta"},
	"invalid_email_domain":        {http.StatusBadRequest, "O domínio do e-mail informado não parece ser válido."},
	"password_too_short":          {http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres"},
	"password_mismatch":           {http.StatusBadRequest, "As senhas não coincidem"},
	"terms_not_accepted":          {http.StatusBadRequest, "Você deve aceitar os termos e condições"},
	"invalid_cpf":                 {http.StatusBadRequest, "CPF inválido."},
	"invalid_cep":                 {http.StatusBadRequest, "CEP inválido."},
	"invalid_state":               {http.StatusConflict, "O chamado não pode mudar para este status."},
	"request_not_found":           {http.StatusNotFound, "Chamado não encontrado."},
	"professional_not_found":      {http.StatusNotFound, "Profissional não encontrado."},
	"professional_inactive":       {http.StatusBadRequest, "Profissional indisponível no momento."},
	"invalid_service_type":        {http.StatusBadRequest, "Tipo de atendimento inválido."},
	"confirmation_required":       {http.StatusBadRequest, "Confirme a recusa do chamado."},
	"conversation_not_found":      {http.StatusNotFound, "Conversa não encontrada."},
	"not_a_participant":           {http.StatusForbidden, "Você não participa desta conversa."},
	"empty_message":               {http.StatusBadRequest, "A mensagem não pode ser vazia."},
	"invalid_content":             {http.StatusBadRequest, "O texto não pode conter HTML."},
	"appointment_not_found":       {http.StatusNotFound, "Atendimento não encontrado."},
	"invalid_rating":              {http.StatusBadRequest, "Selecione de 1 a 5 estrelas."},
	"already_rated":               {http.StatusConflict, "Este atendimento já foi avaliado."},
	"category_not_found":          {http.StatusNotFound, "Categoria não encontrada."},
	"category_already_exists":     {http.StatusConflict, "Já existe uma categoria com este nome."},
	"category_in_use":             {http.StatusConflict, "A categoria possui profissionais vinculados."},
	"plan_not_found":              {http.StatusNotFound, "Plano não encontrado."},
	"invalid_duration_type":       {http.StatusBadRequest, "Tipo de duração inválido."},
	"service_not_found":           {http.StatusNotFound, "Serviço não encontrado."},
	"invalid_professional_status": {http.StatusBadRequest, "Status inválido."},
	"invalid_location":            {http.StatusBadRequest, "Localização inválida."},
	"photo_upload_disabled":       {http.StatusServiceUnavailable, "Envio de fotos indisponível."},
	"invalid_image":               {http.StatusBadRequest, "Imagem inválida."},
	"payment_disabled":            {http.StatusServiceUnavailable, "Pagamentos indisponíveis."},
	"payment_failed":              {http.StatusBadGateway, "Erro ao gerar o pagamento."},
}

// Business escreve a resposta de um BusinessError. Devolve false quando err
// não é de negócio; quem chama responde com erro interno.
func Business(c *gin.Context, err error) bool {
	var be BusinessError
	if !errors.As(err, &be) {
		return false
	}

	info, ok := businessCodes[be.Code]
	if !ok {
		info = businessInfo{http.StatusBadRequest, "Operação inválida."}
	}

	Write(c, info.status, be.Code, info.message)
	return true
}

// MessageFor devolve a mensagem pt-BR de um código de negócio.
func MessageFor(code string) string {
	if info, ok := businessCodes[code]; ok {
		return info.message
	}
	return ""
}

// IsUniqueViolation reconhece violação de chave única no postgres (23505)
// e no sqlite usado nos testes.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
