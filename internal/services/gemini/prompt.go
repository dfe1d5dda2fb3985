package gemini

const captionPrompt = `Analise as imagens de capa (e contracapa se disponível) deste disco de vinil
e crie um post atrativo para venda no Instagram.

O post deve:
1. Ser conciso e atrativo (máximo 300 caracteres principais)
2. Identificar álbum e artista a partir das fotos
3. Incluir as principais músicas/faixas visíveis na contracapa
4. Incluir emojis relevantes
5. Incluir hashtags relevantes no final

IMPORTANTE: Retorne APENAS o post final, sem introduções como "Aqui está..."
ou explicações.

Formato desejado:
[Texto principal atrativo]

🎵 Principais faixas:
[Lista das principais músicas do disco]

💿 Detalhes:
[Informações importantes sobre condição, gravadora, etc]

[Hashtags relevantes]`
