package types

// AppName is used for service identification in logs and health responses
const AppName = "convai"

// DefaultModelURL is the acoustic model archive fetched when no --url is
// given. It is passed explicitly into the installer configuration rather
// than read inside the installer itself.
const DefaultModelURL = "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip"

// DefaultModelDir is the conventional install and lookup destination
const DefaultModelDir = "./model"
