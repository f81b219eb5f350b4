package notify

import "fmt"

type Event string

const (
	EventRequestCreated   Event = "request_created"
	EventRequestAccepted  Event = "request_accepted"
	EventRequestRejected  Event = "request_rejected"
	EventRequestCompleted Event = "request_completed"
)

var serviceTypeLabels = map[string]string{
	"message":    "mensagem",
	"video_call": "vídeo",
	"in_person":  "presencial",
}

// recipientIsProfessional: chamado novo vai para o profissional, o resto
// para o cliente.
func recipientIsProfessional(ev Event) bool {
	return ev == EventRequestCreated
}

func compose(ev Event, counterpartName, serviceType string) (subject, body string) {
	label := serviceTypeLabels[serviceType]
	if label == "" {
		label = serviceType
	}

	switch ev {
	case EventRequestCreated:
		return "Novo chamado recebido",
			fmt.Sprintf("%s abriu um chamado de atendimento por %s. Acesse o app para responder.", counterpartName, label)
	case EventRequestAccepted:
		return "Seu chamado foi aceito",
			fmt.Sprintf("%s aceitou seu chamado. A conversa já está disponível no app.", counterpartName)
	case EventRequestRejected:
		return "Seu chamado foi recusado",
			fmt.Sprintf("%s não pode atender seu chamado no momento. Procure outro profissional no app.", counterpartName)
	case EventRequestCompleted:
		return "Atendimento concluído",
			fmt.Sprintf("Seu atendimento com %s foi concluído. Que tal avaliar?", counterpartName)
	}
	return "", ""
}
