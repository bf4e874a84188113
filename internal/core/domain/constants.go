package domain

import "errors"

var (
	ErrInvalidPath           = errors.New("invalid command path")
	ErrDuplicatePath         = errors.New("command path already registered")
	ErrCommandNotFound       = errors.New("command not found")
	ErrUnsupportedOptionType = errors.New("unsupported option type")
	ErrMalformedPayload      = errors.New("malformed interaction payload")
	ErrHandlerFailure        = errors.New("command handler failed")
	ErrResponseSlotExpired   = errors.New("interaction response slot expired")
	ErrAlreadyResponded      = errors.New("interaction already responded")
	ErrNotInGuild            = errors.New("interaction outside of a guild")

	ErrUnknownExtension   = errors.New("unknown extension")
	ErrExtensionLoaded    = errors.New("extension already loaded")
	ErrExtensionNotLoaded = errors.New("extension not loaded")

	ErrEmptyPrompt = errors.New("empty prompt")
)

// User-facing replies sent by the dispatcher.
const (
	MsgNotAvailable = "That command is not available right now. Try again later."
	MsgGuildOnly    = "This command can only be used inside a server."
	MsgBadPayload   = "Something went wrong while reading that command."
	MsgApology      = "Sorry, something went wrong while running that command. (ref `%s`)"
)
