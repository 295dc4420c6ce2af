package model

// Lex V2 response shapes, per the dialog code hook response format
// (https://docs.aws.amazon.com/lexv2/latest/dg/lambda-response-format.html).

// Dialog action types, exactly one per turn.
const (
	ActionElicitSlot    = "ElicitSlot"
	ActionConfirmIntent = "ConfirmIntent"
	ActionClose         = "Close"
	ActionElicitIntent  = "ElicitIntent"
	ActionDelegate      = "Delegate"
)

// Message content types.
const (
	ContentPlainText         = "PlainText"
	ContentImageResponseCard = "ImageResponseCard"
)

// DialogResponse is the wire response returned to the dialog engine.
type DialogResponse struct {
	SessionState ResponseSessionState `json:"sessionState"`
	Messages     []ResponseMessage    `json:"messages,omitempty"`
}

// ResponseSessionState mirrors SessionState on the outbound side, adding the
// dialog action and active contexts.
type ResponseSessionState struct {
	ActiveContexts    []ActiveContext   `json:"activeContexts,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	DialogAction      DialogAction      `json:"dialogAction"`
	Intent            *Intent           `json:"intent,omitempty"`
}

// DialogAction tells the dialog engine what to do next.
type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// ActiveContext carries intent context forward across turns.
type ActiveContext struct {
	Name              string            `json:"name"`
	ContextAttributes map[string]string `json:"contextAttributes,omitempty"`
	TimeToLive        ContextTTL        `json:"timeToLive"`
}

// ContextTTL bounds an active context in seconds and turns.
type ContextTTL struct {
	TimeToLiveInSeconds int `json:"timeToLiveInSeconds"`
	TurnsToLive         int `json:"turnsToLive"`
}

// ResponseMessage is one outbound message: plain text or a response card.
type ResponseMessage struct {
	ContentType       string             `json:"contentType"`
	Content           string             `json:"content,omitempty"`
	ImageResponseCard *ImageResponseCard `json:"imageResponseCard,omitempty"`
}

// ImageResponseCard is a quick-reply card with buttons.
type ImageResponseCard struct {
	Title    string   `json:"title"`
	SubTitle string   `json:"subTitle,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a single quick-reply suggestion.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}
