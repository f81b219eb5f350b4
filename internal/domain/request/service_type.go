package request

// ServiceType é a modalidade escolhida pelo cliente ao abrir o chamado.
type ServiceType string

const (
	ServiceMessage   ServiceType = "message"
	ServiceVideoCall ServiceType = "video_call"
	ServiceInPerson  ServiceType = "in_person"
)

type ServiceOption struct {
	Type        ServiceType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
}

var serviceOptions = []ServiceOption{
	{ServiceMessage, "Atendimento por Mensagem", "Converse por texto com o profissional", 50},
	{ServiceVideoCall, "Atendimento por Vídeo", "Chamada de vídeo em tempo real", 100},
	{ServiceInPerson, "Atendimento Presencial", "O profissional vai até você", 150},
}

// ServiceOptions devolve as modalidades com preço de referência.
func ServiceOptions() []ServiceOption {
	out := make([]ServiceOption, len(serviceOptions))
	copy(out, serviceOptions)
	return out
}

func IsValidServiceType(t string) bool {
	for _, o := range serviceOptions {
		if string(o.Type) == t {
			return true
		}
	}
	return false
}
