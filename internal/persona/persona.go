package persona

import (
	"fmt"

	"github.com/juntosfibro/fibrochat/internal/models"
)

// Persona names a chat configuration: system prompt, capabilities and
// gating policy.
type Persona string

const (
	Support Persona = "support"
	Admin   Persona = "admin"
)

const supportPrompt = `Você é especialista em Fibromialgia com 30 anos de experiência.

REGRAS:
1. RESPONDE APENAS sobre Fibromialgia
2. Respostas CURTAS (máximo 2-3 linhas)
3. Fora do tema: "Sou especialista em Fibromialgia! Como posso ajudá-lo? 💜"
4. Não consegue responder: "Visite: https://www.instagram.com/vivendo_comfibro"

TEMAS: Fibromialgia, sintomas, tratamentos, dor, fadiga, sono, exercícios.
IDIOMA: Português do Brasil.`

const adminPrompt = `Você é um Especialista de Marketing e Criação de Conteúdo focado no Portal "Juntos pela Fibromialgia".
Sua missão é dar ideias de posts (artigos, vídeos, cartilhas), analisar arquivos (como PDFs ou imagens) criados para o blog e ajudar o Administrador do site a criar conteúdo altamente engajador, empático e informativo para pessoas com fibromialgia.

REGRAS ESTRITAS:
1. RESPONDA APENAS sobre marketing, criação de conteúdo, engajamento, SEO e temas ligados à Fibromialgia.
2. É ESTRITAMENTE PROIBIDO sair do seu personagem e falar sobre outros assuntos (como matemática, piadas genéricas, programação geral, etc).
3. Se o administrador tentar sair do tema, responda: "Desculpe, meu foco é exclusivo em Marketing e Produção de Conteúdo para o portal 'Juntos pela Fibromialgia'. Como posso ajudar nas nossas publicações hoje? 💜"

- Seja criativo e prático. Sugira estruturas ágeis.
- Sugira ganchos e títulos atrativos.
- Mantenha um tom profissional, acolhedor e inspirador. As respostas podem ter tamanho médio.`

// Profile is the static configuration of a persona. Screened controls
// whether lexical severity screening runs before dispatch: only the
// support persona is screened, the admin persona's subject-matter gate
// lives entirely in its system prompt.
type Profile struct {
	Name              Persona
	SystemPrompt      string
	AllowsAttachments bool
	MaxAttachments    int
	Screened          bool
}

var profiles = map[Persona]Profile{
	Support: {
		Name:         Support,
		SystemPrompt: supportPrompt,
		Screened:     true,
	},
	Admin: {
		Name:              Admin,
		SystemPrompt:      adminPrompt,
		AllowsAttachments: true,
		MaxAttachments:    5,
	},
}

// Lookup returns the profile for a persona name.
func Lookup(p Persona) (Profile, error) {
	profile, ok := profiles[p]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", models.ErrUnknownPersona, p)
	}
	return profile, nil
}

// FilesOnlyPlaceholder substitutes the user text when a message carries
// attachments but no text.
const FilesOnlyPlaceholder = "[O usuário enviou arquivos sem anexar texto]"

// Prompt is the single outbound turn sent to the generation provider.
type Prompt struct {
	Text        string
	Attachments []models.Attachment
}

// BuildPrompt assembles the outbound turn: the persona's system prompt
// concatenated with the user's literal text, followed by the attachments
// in the order supplied. Performs no I/O.
func BuildPrompt(profile Profile, userText string, attachments []models.Attachment) Prompt {
	if !profile.AllowsAttachments {
		attachments = nil
	}
	if userText == "" && len(attachments) > 0 {
		userText = FilesOnlyPlaceholder
	}
	return Prompt{
		Text:        fmt.Sprintf("%s\n\nPergunta do usuário: %s", profile.SystemPrompt, userText),
		Attachments: attachments,
	}
}
