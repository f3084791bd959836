package repository

import "github.com/voxarena/arena-go/internal/model"

// DefaultProviders is the roster upserted at startup. Ratings and match
// counters live in the database and are never reset by seeding.
var DefaultProviders = []model.Provider{
	{ID: "eleven-multilingual-v2", Name: "ElevenLabs Multilingual v2", ComparisonType: model.ComparisonTTS, IsActive: true, ProviderURL: "https://elevenlabs.io"},
	{ID: "openai-tts-1-hd", Name: "OpenAI TTS-1 HD", ComparisonType: model.ComparisonTTS, IsActive: true, ProviderURL: "https://platform.openai.com"},
	{ID: "playht-2.0", Name: "PlayHT 2.0", ComparisonType: model.ComparisonTTS, IsActive: true, ProviderURL: "https://play.ht"},
	{ID: "cartesia-sonic", Name: "Cartesia Sonic", ComparisonType: model.ComparisonTTS, IsActive: true, ProviderURL: "https://cartesia.ai"},
	{ID: "kokoro-82m", Name: "Kokoro 82M", ComparisonType: model.ComparisonTTS, IsOpen: true, IsActive: true, ProviderURL: "https://huggingface.co/hexgrad/Kokoro-82M"},
	{ID: "fish-speech-1.5", Name: "Fish Speech 1.5", ComparisonType: model.ComparisonTTS, IsOpen: true, IsActive: true, ProviderURL: "https://github.com/fishaudio/fish-speech"},
	{ID: "styletts2", Name: "StyleTTS 2", ComparisonType: model.ComparisonTTS, IsOpen: true, IsActive: true, ProviderURL: "https://github.com/yl4579/StyleTTS2"},
	{ID: "melo-tts", Name: "MeloTTS", ComparisonType: model.ComparisonTTS, IsOpen: true, IsActive: true, ProviderURL: "https://github.com/myshell-ai/MeloTTS"},

	{ID: "playdialog", Name: "PlayDialog", ComparisonType: model.ComparisonConversational, IsActive: true, ProviderURL: "https://play.ht"},
	{ID: "eleven-multilingual-v2", Name: "ElevenLabs Multilingual v2", ComparisonType: model.ComparisonConversational, IsActive: true, ProviderURL: "https://elevenlabs.io"},
	{ID: "dia-1.6b", Name: "Dia 1.6B", ComparisonType: model.ComparisonConversational, IsOpen: true, IsActive: true, ProviderURL: "https://github.com/nari-labs/dia"},
	{ID: "moshi", Name: "Moshi", ComparisonType: model.ComparisonConversational, IsOpen: true, IsActive: true, ProviderURL: "https://github.com/kyutai-labs/moshi"},
}
